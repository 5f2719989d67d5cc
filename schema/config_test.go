// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcp202406/paradedb/index"
)

func TestFieldConfigDefaults(t *testing.T) {
	tests := []struct {
		name    string
		partial string
		full    string
		want    SearchFieldConfig
	}{
		{
			name:    "text",
			partial: `{"Text": {}}`,
			full:    `{"Text": {"indexed": true, "fast": false, "stored": true, "fieldnorms": true, "tokenizer": "default", "record": "position", "normalizer": "raw"}}`,
			want:    DefaultText(),
		},
		{
			name:    "json",
			partial: `{"Json": {}}`,
			full:    `{"Json": {"indexed": true, "fast": false, "stored": true, "expand_dots": true, "tokenizer": "default", "record": "position", "normalizer": "raw"}}`,
			want:    DefaultJson(),
		},
		{
			name:    "numeric",
			partial: `{"Numeric": {}}`,
			full:    `{"Numeric": {"indexed": true, "fast": true, "stored": true}}`,
			want:    DefaultNumeric(),
		},
		{
			name:    "boolean",
			partial: `{"Boolean": {}}`,
			full:    `{"Boolean": {"indexed": true, "fast": true, "stored": true}}`,
			want:    DefaultBoolean(),
		},
		{
			name:    "date",
			partial: `{"Date": {}}`,
			full:    `{"Date": {"indexed": true, "fast": true, "stored": true}}`,
			want:    DefaultDate(),
		},
		{
			name:    "ctid",
			partial: `"Ctid"`,
			full:    `"Ctid"`,
			want:    Ctid(),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var fromPartial, fromFull SearchFieldConfig
			require.NoError(t, json.Unmarshal([]byte(test.partial), &fromPartial))
			require.NoError(t, json.Unmarshal([]byte(test.full), &fromFull))
			assert.Equal(t, test.want, fromPartial)
			assert.Equal(t, fromFull, fromPartial)

			// Encoding writes every key explicit; decoding that must
			// reproduce the original configuration.
			encoded, err := json.Marshal(fromPartial)
			require.NoError(t, err)
			var decoded SearchFieldConfig
			require.NoError(t, json.Unmarshal(encoded, &decoded))
			assert.Equal(t, fromPartial, decoded)
		})
	}
}

func TestFieldConfigOverrides(t *testing.T) {
	var cfg SearchFieldConfig
	err := json.Unmarshal([]byte(`{"Text": {"fast": true, "tokenizer": "en_stem", "record": "freq", "normalizer": "lowercase", "fieldnorms": false}}`), &cfg)
	require.NoError(t, err)
	assert.Equal(t, KindText, cfg.Kind)
	assert.True(t, cfg.Indexed) // default survives partial overrides
	assert.True(t, cfg.Fast)
	assert.False(t, cfg.Fieldnorms)
	assert.Equal(t, TokenizerEnStem, cfg.Tokenizer)
	assert.Equal(t, index.IndexRecordWithFreqs, cfg.Record)
	assert.Equal(t, NormalizerLowercase, cfg.Normalizer)
}

func TestFieldConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"non-object body", `{"Text": 7}`},
		{"unknown key", `{"Numeric": {"fasts": true}}`},
		{"wrong type for boolean key", `{"Date": {"indexed": "yes"}}`},
		{"unknown variant", `{"Decimal": {}}`},
		{"unknown unit variant", `"Row"`},
		{"two variants", `{"Text": {}, "Json": {}}`},
		{"unknown tokenizer", `{"Text": {"tokenizer": "icu"}}`},
		{"unknown record", `{"Text": {"record": "everything"}}`},
		{"expand_dots on text", `{"Text": {"expand_dots": true}}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var cfg SearchFieldConfig
			err := json.Unmarshal([]byte(test.in), &cfg)
			assert.Error(t, err)
		})
	}
}

func TestFieldConfigOptionConversionPanics(t *testing.T) {
	assert.Panics(t, func() {
		DefaultNumeric().textOptions()
	})
	assert.Panics(t, func() {
		DefaultText().numericOptions()
	})
	assert.Panics(t, func() {
		DefaultDate().jsonOptions()
	})
	assert.Panics(t, func() {
		DefaultJson().dateOptions()
	})

	// Boolean shares the numeric layout.
	assert.NotPanics(t, func() {
		DefaultBoolean().numericOptions()
	})
}

func TestTextOptionsCarryIndexingSettings(t *testing.T) {
	cfg := DefaultText()
	cfg.Fast = true
	cfg.Normalizer = NormalizerLowercase
	opts := cfg.textOptions()
	assert.True(t, opts.Indexed)
	assert.True(t, opts.Stored)
	assert.Equal(t, "lowercase", opts.FastNormalizer)
	assert.Equal(t, "default", opts.Tokenizer)
	assert.Equal(t, index.IndexRecordWithFreqsAndPositions, opts.Record)
	assert.True(t, opts.Fieldnorms)

	// An unindexed field records no indexing options at all.
	cfg = DefaultText()
	cfg.Indexed = false
	opts = cfg.textOptions()
	assert.Empty(t, opts.Tokenizer)
	assert.False(t, opts.Fieldnorms)
}
