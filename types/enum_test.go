/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindEnum(t *testing.T) {
	assert.Equal(t, "backend", KindBackend.Name())
	assert.Equal(t, "backend execution failed", KindBackend.Desc())
	assert.Equal(t, int(KindBackend), KindBackend.Number())

	assert.False(t, KindUnknown.IsValid())
	assert.Equal(t, IllegalValue, KindUnknown.Number())
	assert.Equal(t, IllegalName, ErrorKind(42).String())
	assert.Equal(t, IllegalDesc, ErrorKind(42).Desc())
}

func TestParseEnum(t *testing.T) {
	kinds := []ErrorKind{KindConfiguration, KindValidation, KindIntegrity, KindBackend, KindCanceled}

	k, ok := ParseEnum("Integrity", kinds...)
	assert.True(t, ok)
	assert.Equal(t, KindIntegrity, k)

	k, ok = ParseEnum("nope", kinds...)
	assert.False(t, ok)
	assert.Equal(t, KindUnknown, k)
}
