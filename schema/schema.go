// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package schema maps application-level field declarations onto the
// engine's physical field registry and answers name and type lookups
// for document writing and query compilation.
package schema

import (
	"github.com/lcp202406/paradedb/errors"
	"github.com/lcp202406/paradedb/index"
)

// SearchField is one resolved field of a built schema.
type SearchField struct {
	// ID is the engine-assigned handle for the field.
	ID index.FieldID `json:"id"`
	// Name is the field name as external callers know it.
	Name string `json:"name"`
	// Config is the configuration the field was declared with.
	Config SearchFieldConfig `json:"config"`
	// Type is the declared logical type.
	Type SearchFieldType `json:"type"`
}

// indexType is the physical type the field registered as. Ctid fields
// register as u64 regardless of their declared logical type.
func (f SearchField) indexType() index.FieldType {
	if f.Config.Kind == KindCtid {
		return index.FieldTypeU64
	}
	return f.Type.indexType()
}

// FieldDeclaration is the application-level description of one field,
// the input to schema construction.
type FieldDeclaration struct {
	Name   string            `json:"name"`
	Config SearchFieldConfig `json:"config"`
	Type   SearchFieldType   `json:"type"`
}

// Schema is an ordered set of resolved fields plus the positions of the
// two distinguished fields. It is built once at index creation,
// persisted alongside the index, and never mutated afterwards, so it
// may be shared freely between concurrent readers.
type Schema struct {
	// Fields in declaration order.
	Fields []SearchField `json:"fields"`
	// Key is the position of the application's unique row identifier.
	Key int `json:"key"`
	// Ctid is the position of the row-locator field.
	Ctid int `json:"ctid"`

	// Engine registry produced at construction. Not serialized; a
	// schema decoded from its serialized form answers lookups from
	// Fields alone.
	indexSchema *index.Schema

	// Name lookup built at construction. Not serialized; lookups on a
	// decoded schema fall back to a scan-built table, with identical
	// results.
	lookup map[string]int
}

// NewSchema registers every declaration with the engine and returns the
// resolved schema. The key index must point into decls, and exactly the
// fields declared with the Ctid configuration register as row locators;
// at least one must be present.
func NewSchema(decls []FieldDeclaration, keyIndex int) (*Schema, error) {
	if keyIndex < 0 || keyIndex >= len(decls) {
		return nil, NewErrNoKeyField(keyIndex, len(decls))
	}

	builder := index.NewSchemaBuilder()
	fields := make([]SearchField, 0, len(decls))
	ctidIndex := -1

	for i, decl := range decls {
		var (
			id  index.FieldID
			err error
		)
		if decl.Config.Kind == KindCtid {
			if ctidIndex == -1 {
				ctidIndex = i
			}
			// The row locator is always an indexed, stored, fast u64.
			id, err = builder.AddField(decl.Name, index.FieldTypeU64, index.FieldOptions{
				Indexed: true,
				Stored:  true,
				Fast:    true,
			})
		} else {
			id, err = registerField(builder, decl)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "registering field %q", decl.Name)
		}
		fields = append(fields, SearchField{
			ID:     id,
			Name:   decl.Name,
			Config: decl.Config,
			Type:   decl.Type,
		})
	}

	if ctidIndex == -1 {
		return nil, NewErrNoCtidField()
	}

	return &Schema{
		Fields:      fields,
		Key:         keyIndex,
		Ctid:        ctidIndex,
		indexSchema: builder.Build(),
		lookup:      buildLookup(fields),
	}, nil
}

// registerField adds one non-ctid declaration to the engine registry.
// The configuration family must match the declared logical type; a
// mismatch is a programming error in the caller and panics.
func registerField(builder *index.SchemaBuilder, decl FieldDeclaration) (index.FieldID, error) {
	switch decl.Type {
	case SearchFieldTypeText:
		return builder.AddField(decl.Name, index.FieldTypeStr, decl.Config.textOptions())
	case SearchFieldTypeI64:
		return builder.AddField(decl.Name, index.FieldTypeI64, decl.Config.numericOptions())
	case SearchFieldTypeU64:
		return builder.AddField(decl.Name, index.FieldTypeU64, decl.Config.numericOptions())
	case SearchFieldTypeF64:
		return builder.AddField(decl.Name, index.FieldTypeF64, decl.Config.numericOptions())
	case SearchFieldTypeBool:
		return builder.AddField(decl.Name, index.FieldTypeBool, decl.Config.numericOptions())
	case SearchFieldTypeJson:
		return builder.AddField(decl.Name, index.FieldTypeJson, decl.Config.jsonOptions())
	case SearchFieldTypeDate:
		return builder.AddField(decl.Name, index.FieldTypeDate, decl.Config.dateOptions())
	default:
		panic("unreachable search field type " + decl.Type.String())
	}
}

func buildLookup(fields []SearchField) map[string]int {
	lookup := make(map[string]int, len(fields))
	for i, f := range fields {
		lookup[f.Name] = i
	}
	return lookup
}

// KeyField returns the application key field.
func (s *Schema) KeyField() SearchField {
	if s.Key < 0 || s.Key >= len(s.Fields) {
		panic("key field should be present on search schema")
	}
	return s.Fields[s.Key]
}

// CtidField returns the row-locator field.
func (s *Schema) CtidField() SearchField {
	if s.Ctid < 0 || s.Ctid >= len(s.Fields) {
		panic("ctid field should be present on search schema")
	}
	return s.Fields[s.Ctid]
}

// GetSearchField looks a field up by name. On a schema whose lookup
// table was never built (one decoded from storage), it scans instead;
// the result is the same either way.
func (s *Schema) GetSearchField(name string) (SearchField, bool) {
	lookup := s.lookup
	if lookup == nil {
		lookup = buildLookup(s.Fields)
	}
	i, ok := lookup[name]
	if !ok {
		return SearchField{}, false
	}
	return s.Fields[i], true
}

// ResolveField reports the physical type and id registered for name.
func (s *Schema) ResolveField(name string) (index.TypedField, bool) {
	f, ok := s.GetSearchField(name)
	if !ok {
		return index.TypedField{}, false
	}
	return index.TypedField{Type: f.indexType(), Field: f.ID}, true
}

// TypedFields lists the physical type and id of every field, in
// declaration order.
func (s *Schema) TypedFields() []index.TypedField {
	out := make([]index.TypedField, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = index.TypedField{Type: f.indexType(), Field: f.ID}
	}
	return out
}

// IndexSchema returns the engine registry built at construction, or nil
// for a schema decoded from storage.
func (s *Schema) IndexSchema() *index.Schema {
	return s.indexSchema
}

// Declarations reconstructs the field declarations the schema was built
// from, for persistence.
func (s *Schema) Declarations() []FieldDeclaration {
	decls := make([]FieldDeclaration, len(s.Fields))
	for i, f := range s.Fields {
		decls[i] = FieldDeclaration{
			Name:   f.Name,
			Config: f.Config,
			Type:   f.Type,
		}
	}
	return decls
}
