// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcp202406/paradedb/errors"
	"github.com/lcp202406/paradedb/index"
)

// testDecls is the three-field layout used throughout: a numeric key, a
// text body, and a row locator.
func testDecls() []FieldDeclaration {
	return []FieldDeclaration{
		{Name: "id", Config: DefaultNumeric(), Type: SearchFieldTypeI64},
		{Name: "body", Config: DefaultText(), Type: SearchFieldTypeText},
		{Name: "ctid", Config: Ctid(), Type: SearchFieldTypeU64},
	}
}

func TestNewSchema(t *testing.T) {
	s, err := NewSchema(testDecls(), 0)
	require.NoError(t, err)

	assert.Equal(t, "id", s.KeyField().Name)
	assert.Equal(t, "ctid", s.CtidField().Name)
	require.NotNil(t, s.IndexSchema())
	assert.Equal(t, 3, s.IndexSchema().NumFields())

	tf, ok := s.ResolveField("id")
	require.True(t, ok)
	assert.Equal(t, index.FieldTypeI64, tf.Type)

	tf, ok = s.ResolveField("body")
	require.True(t, ok)
	assert.Equal(t, index.FieldTypeStr, tf.Type)

	// Row locators resolve as u64 no matter their declared type.
	tf, ok = s.ResolveField("ctid")
	require.True(t, ok)
	assert.Equal(t, index.FieldTypeU64, tf.Type)

	_, ok = s.ResolveField("missing")
	assert.False(t, ok)

	typed := s.TypedFields()
	require.Len(t, typed, 3)
	assert.Equal(t, index.FieldTypeI64, typed[0].Type)
	assert.Equal(t, index.FieldTypeStr, typed[1].Type)
	assert.Equal(t, index.FieldTypeU64, typed[2].Type)
}

func TestNewSchemaKeyOutOfRange(t *testing.T) {
	_, err := NewSchema(testDecls(), -1)
	assert.True(t, errors.Is(err, ErrNoKeyField), "got: %v", err)

	_, err = NewSchema(testDecls(), 3)
	assert.True(t, errors.Is(err, ErrNoKeyField), "got: %v", err)
}

func TestNewSchemaMissingCtid(t *testing.T) {
	decls := testDecls()[:2]
	_, err := NewSchema(decls, 0)
	assert.True(t, errors.Is(err, ErrNoCtidField), "got: %v", err)
}

func TestNewSchemaDuplicateName(t *testing.T) {
	decls := testDecls()
	decls[1].Name = "id"
	_, err := NewSchema(decls, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `registering field "id"`)
}

func TestNewSchemaFirstCtidWins(t *testing.T) {
	decls := append(testDecls(),
		FieldDeclaration{Name: "ctid2", Config: Ctid(), Type: SearchFieldTypeU64})
	s, err := NewSchema(decls, 0)
	require.NoError(t, err)
	assert.Equal(t, "ctid", s.CtidField().Name)

	// Both register as row locators in the engine regardless.
	tf, ok := s.ResolveField("ctid2")
	require.True(t, ok)
	assert.Equal(t, index.FieldTypeU64, tf.Type)
}

func TestNewSchemaConfigTypeMismatchPanics(t *testing.T) {
	decls := testDecls()
	decls[0].Config = DefaultText()
	assert.Panics(t, func() {
		_, _ = NewSchema(decls, 0)
	})
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	s, err := NewSchema(testDecls(), 0)
	require.NoError(t, err)

	buf, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Schema
	require.NoError(t, json.Unmarshal(buf, &decoded))

	// The engine registry is construction-time only.
	assert.Nil(t, decoded.IndexSchema())

	assert.Equal(t, s.Fields, decoded.Fields)
	assert.Equal(t, s.Key, decoded.Key)
	assert.Equal(t, s.Ctid, decoded.Ctid)

	// Lookups on the decoded schema answer identically even though its
	// lookup table was never built.
	for _, name := range []string{"id", "body", "ctid"} {
		want, ok := s.ResolveField(name)
		require.True(t, ok)
		got, ok := decoded.ResolveField(name)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := decoded.ResolveField("missing")
	assert.False(t, ok)
}

func TestSchemaDeclarations(t *testing.T) {
	decls := testDecls()
	s, err := NewSchema(decls, 0)
	require.NoError(t, err)
	assert.Equal(t, decls, s.Declarations())

	// Rebuilding from the reconstructed declarations resolves the same.
	rebuilt, err := NewSchema(s.Declarations(), s.Key)
	require.NoError(t, err)
	assert.Equal(t, s.Fields, rebuilt.Fields)
}

func TestInferFieldType(t *testing.T) {
	tests := []struct {
		column string
		want   SearchFieldType
	}{
		{"text", SearchFieldTypeText},
		{"varchar", SearchFieldTypeText},
		{"uuid", SearchFieldTypeText},
		{"int2", SearchFieldTypeI64},
		{"int4", SearchFieldTypeI64},
		{"int8", SearchFieldTypeI64},
		{"bigint", SearchFieldTypeI64},
		{"oid", SearchFieldTypeU64},
		{"xid", SearchFieldTypeU64},
		{"float4", SearchFieldTypeF64},
		{"numeric", SearchFieldTypeF64},
		{"bool", SearchFieldTypeBool},
		{"jsonb", SearchFieldTypeJson},
		{"date", SearchFieldTypeDate},
		{"timestamptz", SearchFieldTypeDate},
	}
	for _, test := range tests {
		t.Run(test.column, func(t *testing.T) {
			got, err := InferFieldType(test.column)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}

	_, err := InferFieldType("cidr")
	assert.True(t, errors.Is(err, ErrUnsupportedType), "got: %v", err)
}
