// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package paradedb is the query-compilation and schema-resolution layer
// of a full-text search index embedded in a relational database. The
// host integration (row insertion, index build, index scan) needs only
// the two entry points below; everything else lives in the schema,
// query, index and catalog subpackages.
package paradedb

import (
	"github.com/lcp202406/paradedb/index"
	"github.com/lcp202406/paradedb/query"
	"github.com/lcp202406/paradedb/schema"
)

// Compile lowers a query input tree into an executable engine query,
// validating every referenced field against the schema.
func Compile(input query.SearchQueryInput, s *schema.Schema, parser index.QueryParser) (index.Query, error) {
	return query.Compile(input, s, parser)
}

// ResolveField reports the physical type and id registered for a field
// name, or false if the schema has no such field.
func ResolveField(s *schema.Schema, name string) (index.FieldType, index.FieldID, bool) {
	tf, ok := s.ResolveField(name)
	if !ok {
		return 0, 0, false
	}
	return tf.Type, tf.Field, true
}

// NewParser returns a free-text parser over the schema's indexed text
// fields, which become the default fields for unqualified terms.
// Parsers are not safe for concurrent use; create one per goroutine.
func NewParser(s *schema.Schema) *index.Parser {
	var defaults []index.FieldID
	for _, f := range s.Fields {
		if f.Config.Kind == schema.KindText && f.Config.Indexed {
			defaults = append(defaults, f.ID)
		}
	}
	return index.NewParser(s.IndexSchema(), defaults)
}
