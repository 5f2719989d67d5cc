// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package catalog

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcp202406/paradedb/errors"
	"github.com/lcp202406/paradedb/index"
	"github.com/lcp202406/paradedb/logger"
	"github.com/lcp202406/paradedb/schema"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"), logger.NewLogfLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.NewSchema([]schema.FieldDeclaration{
		{Name: "id", Config: schema.DefaultNumeric(), Type: schema.SearchFieldTypeI64},
		{Name: "body", Config: schema.DefaultText(), Type: schema.SearchFieldTypeText},
		{Name: "ctid", Config: schema.Ctid(), Type: schema.SearchFieldTypeU64},
	}, 0)
	require.NoError(t, err)
	return s
}

func TestStorePutGet(t *testing.T) {
	store := testStore(t)
	sch := testSchema(t)

	require.NoError(t, store.Put("docs", sch))

	loaded, err := store.Get("docs")
	require.NoError(t, err)
	assert.Equal(t, sch.Fields, loaded.Fields)
	assert.Equal(t, sch.Key, loaded.Key)
	assert.Equal(t, sch.Ctid, loaded.Ctid)

	// The rebuilt schema resolves like the original, engine registry
	// included.
	require.NotNil(t, loaded.IndexSchema())
	want, ok := sch.ResolveField("body")
	require.True(t, ok)
	got, ok := loaded.ResolveField("body")
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, index.FieldTypeU64, mustResolveType(t, loaded, "ctid"))
}

func mustResolveType(t *testing.T, s *schema.Schema, name string) index.FieldType {
	t.Helper()
	tf, ok := s.ResolveField(name)
	require.True(t, ok)
	return tf.Type
}

func TestStoreUUIDStableAcrossUpdates(t *testing.T) {
	store := testStore(t)
	sch := testSchema(t)

	require.NoError(t, store.Put("docs", sch))
	first, err := store.GetEntry("docs")
	require.NoError(t, err)
	assert.NotEmpty(t, first.IndexUUID)

	require.NoError(t, store.Put("docs", sch))
	second, err := store.GetEntry("docs")
	require.NoError(t, err)
	assert.Equal(t, first.IndexUUID, second.IndexUUID)

	// A different index gets its own uuid.
	require.NoError(t, store.Put("other", sch))
	other, err := store.GetEntry("other")
	require.NoError(t, err)
	assert.NotEqual(t, first.IndexUUID, other.IndexUUID)
}

func TestStorePutLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"), logger.NewVerboseLogger(&buf))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("docs", testSchema(t)))
	assert.Contains(t, buf.String(), `stored schema for index "docs"`)

	// The default threshold keeps the same line quiet.
	buf.Reset()
	quiet, err := Open(filepath.Join(t.TempDir(), "catalog.db"), logger.NewStandardLogger(&buf))
	require.NoError(t, err)
	defer quiet.Close()
	require.NoError(t, quiet.Put("docs", testSchema(t)))
	assert.NotContains(t, buf.String(), "stored schema")
}

func TestStoreGetNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.Get("missing")
	assert.True(t, errors.Is(err, ErrIndexNotFound), "got: %v", err)
	_, err = store.GetEntry("missing")
	assert.True(t, errors.Is(err, ErrIndexNotFound), "got: %v", err)
}

func TestStoreListAndDelete(t *testing.T) {
	store := testStore(t)
	sch := testSchema(t)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.Put("b", sch))
	require.NoError(t, store.Put("a", sch))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, store.Delete("a"))
	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	// Deleting an absent name is a no-op.
	require.NoError(t, store.Delete("a"))

	_, err = store.Get("a")
	assert.True(t, errors.Is(err, ErrIndexNotFound), "got: %v", err)
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.db")
	sch := testSchema(t)

	store, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put("docs", sch))
	entry, err := store.GetEntry("docs")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	again, err := reopened.GetEntry("docs")
	require.NoError(t, err)
	assert.Equal(t, entry.IndexUUID, again.IndexUUID)
	loaded, err := reopened.Get("docs")
	require.NoError(t, err)
	assert.Equal(t, sch.Fields, loaded.Fields)
}
