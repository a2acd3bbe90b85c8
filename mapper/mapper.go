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

package mapper

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Mapper resolves the table mapping of an entity type.
type Mapper interface {
	Descriptor(typ reflect.Type) (*Descriptor, error)
}

// Cache memoizes the descriptors produced by another Mapper. It is safe
// for concurrent use.
type Cache struct {
	mapper      Mapper
	descriptors map[reflect.Type]*Descriptor
	mutex       sync.RWMutex
}

// NewCache wraps m. Wrapping a Cache returns it unchanged.
func NewCache(m Mapper) *Cache {
	if c, ok := m.(*Cache); ok {
		return c
	}
	return &Cache{mapper: m, descriptors: make(map[reflect.Type]*Descriptor)}
}

func (c *Cache) Descriptor(typ reflect.Type) (*Descriptor, error) {
	typ = indirect(typ)
	c.mutex.RLock()
	d, ok := c.descriptors[typ]
	c.mutex.RUnlock()
	if ok {
		return d, nil
	}

	d, err := c.mapper.Descriptor(typ)
	if err != nil {
		return nil, err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if existing, ok := c.descriptors[typ]; ok {
		return existing, nil
	}
	c.descriptors[typ] = d
	return d, nil
}

// Register resolves the mapping of each instance up front so that mapping
// errors surface at startup instead of on first use.
func (c *Cache) Register(instances ...any) error {
	for _, instance := range instances {
		if instance == nil {
			return fmt.Errorf("cannot register a nil entity")
		}
		if _, err := c.Descriptor(reflect.TypeOf(instance)); err != nil {
			return err
		}
	}
	return nil
}

// Descriptors returns every resolved descriptor ordered by table name.
func (c *Cache) Descriptors() []*Descriptor {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make([]*Descriptor, 0, len(c.descriptors))
	for _, d := range c.descriptors {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Table < result[j].Table
	})
	return result
}
