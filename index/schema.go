// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package index

import (
	"github.com/lcp202406/paradedb/errors"
)

const (
	ErrFieldExists errors.Code = "ErrFieldExists"
	ErrInvalidName errors.Code = "ErrInvalidName"
)

// SchemaBuilder accumulates field registrations and produces the
// engine's physical schema. Field ids are assigned in registration
// order, starting at zero.
type SchemaBuilder struct {
	entries []FieldEntry
	byName  map[string]FieldID
}

func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{
		byName: make(map[string]FieldID),
	}
}

// AddField registers a field and returns its id. Registration fails if
// the name is empty or already registered.
func (b *SchemaBuilder) AddField(name string, typ FieldType, options FieldOptions) (FieldID, error) {
	if name == "" {
		return 0, errors.New(ErrInvalidName, "field name must not be empty")
	}
	if _, ok := b.byName[name]; ok {
		return 0, errors.New(ErrFieldExists, "field already exists: "+name)
	}
	id := FieldID(len(b.entries))
	b.entries = append(b.entries, FieldEntry{
		Name:    name,
		Type:    typ,
		Options: options,
	})
	b.byName[name] = id
	return id, nil
}

// Build freezes the accumulated registrations into a Schema. The
// builder must not be reused afterwards.
func (b *SchemaBuilder) Build() *Schema {
	return &Schema{
		entries: b.entries,
	}
}

// Schema is the engine's immutable physical field registry.
type Schema struct {
	entries []FieldEntry
}

// FieldEntry returns the registration record for id.
func (s *Schema) FieldEntry(id FieldID) (FieldEntry, bool) {
	if int(id) >= len(s.entries) {
		return FieldEntry{}, false
	}
	return s.entries[id], true
}

// NumFields reports how many fields are registered.
func (s *Schema) NumFields() int {
	return len(s.entries)
}
