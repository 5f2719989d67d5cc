// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package schema

import (
	"encoding/json"

	"github.com/lcp202406/paradedb/errors"
	"github.com/lcp202406/paradedb/index"
)

// ConfigKind names the configuration family a field was declared with.
type ConfigKind string

const (
	KindText    ConfigKind = "Text"
	KindJson    ConfigKind = "Json"
	KindNumeric ConfigKind = "Numeric"
	KindBoolean ConfigKind = "Boolean"
	KindDate    ConfigKind = "Date"
	KindCtid    ConfigKind = "Ctid"
)

// SearchFieldConfig carries the per-family indexing options for one
// field. Only the members relevant to Kind are meaningful; the
// constructors and the JSON decoder keep the rest at their zero value.
type SearchFieldConfig struct {
	Kind ConfigKind

	Indexed bool
	Fast    bool
	Stored  bool

	// Text only.
	Fieldnorms bool
	// Json only.
	ExpandDots bool

	// Text and json.
	Tokenizer  SearchTokenizer
	Record     index.IndexRecordOption
	Normalizer SearchNormalizer
}

// DefaultText returns the Text configuration with every key defaulted.
func DefaultText() SearchFieldConfig {
	return SearchFieldConfig{
		Kind:       KindText,
		Indexed:    true,
		Fast:       false,
		Stored:     true,
		Fieldnorms: true,
		Tokenizer:  TokenizerDefault,
		Record:     index.IndexRecordWithFreqsAndPositions,
		Normalizer: NormalizerRaw,
	}
}

// DefaultJson returns the Json configuration with every key defaulted.
func DefaultJson() SearchFieldConfig {
	return SearchFieldConfig{
		Kind:       KindJson,
		Indexed:    true,
		Fast:       false,
		Stored:     true,
		ExpandDots: true,
		Tokenizer:  TokenizerDefault,
		Record:     index.IndexRecordWithFreqsAndPositions,
		Normalizer: NormalizerRaw,
	}
}

// DefaultNumeric returns the Numeric configuration with every key
// defaulted.
func DefaultNumeric() SearchFieldConfig {
	return SearchFieldConfig{
		Kind:    KindNumeric,
		Indexed: true,
		Fast:    true,
		Stored:  true,
	}
}

// DefaultBoolean returns the Boolean configuration with every key
// defaulted.
func DefaultBoolean() SearchFieldConfig {
	return SearchFieldConfig{
		Kind:    KindBoolean,
		Indexed: true,
		Fast:    true,
		Stored:  true,
	}
}

// DefaultDate returns the Date configuration with every key defaulted.
func DefaultDate() SearchFieldConfig {
	return SearchFieldConfig{
		Kind:    KindDate,
		Indexed: true,
		Fast:    true,
		Stored:  true,
	}
}

// Ctid returns the row-locator configuration. It carries no options;
// the ctid field always registers as an indexed, stored, fast u64.
func Ctid() SearchFieldConfig {
	return SearchFieldConfig{Kind: KindCtid}
}

// MarshalJSON writes the configuration as a tagged object with every
// recognized key explicit, e.g. {"Text": {"indexed": true, ...}}. The
// Ctid variant, having no options, is written as the bare string
// "Ctid". Decoding the output reproduces the configuration exactly.
func (c SearchFieldConfig) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindText:
		return json.Marshal(map[ConfigKind]interface{}{KindText: struct {
			Indexed    bool                    `json:"indexed"`
			Fast       bool                    `json:"fast"`
			Stored     bool                    `json:"stored"`
			Fieldnorms bool                    `json:"fieldnorms"`
			Tokenizer  SearchTokenizer         `json:"tokenizer"`
			Record     index.IndexRecordOption `json:"record"`
			Normalizer SearchNormalizer        `json:"normalizer"`
		}{c.Indexed, c.Fast, c.Stored, c.Fieldnorms, c.Tokenizer, c.Record, c.Normalizer}})
	case KindJson:
		return json.Marshal(map[ConfigKind]interface{}{KindJson: struct {
			Indexed    bool                    `json:"indexed"`
			Fast       bool                    `json:"fast"`
			Stored     bool                    `json:"stored"`
			ExpandDots bool                    `json:"expand_dots"`
			Tokenizer  SearchTokenizer         `json:"tokenizer"`
			Record     index.IndexRecordOption `json:"record"`
			Normalizer SearchNormalizer        `json:"normalizer"`
		}{c.Indexed, c.Fast, c.Stored, c.ExpandDots, c.Tokenizer, c.Record, c.Normalizer}})
	case KindNumeric, KindBoolean, KindDate:
		return json.Marshal(map[ConfigKind]interface{}{c.Kind: struct {
			Indexed bool `json:"indexed"`
			Fast    bool `json:"fast"`
			Stored  bool `json:"stored"`
		}{c.Indexed, c.Fast, c.Stored}})
	case KindCtid:
		return json.Marshal(string(KindCtid))
	default:
		return nil, errors.Errorf("unknown field config kind %q", c.Kind)
	}
}

// UnmarshalJSON decodes a tagged configuration object, filling any
// missing keys with the family's defaults. Unknown keys and keys of the
// wrong JSON type fail with a descriptive error.
func (c *SearchFieldConfig) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if ConfigKind(s) == KindCtid {
			*c = Ctid()
			return nil
		}
		return NewErrInvalidConfigf("unknown field configuration %q", s)
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err != nil {
		return NewErrInvalidConfig("field configuration must be a tagged JSON object")
	}
	if len(tagged) != 1 {
		return NewErrInvalidConfigf("field configuration must have exactly one variant, got %d", len(tagged))
	}

	for kind, body := range tagged {
		switch ConfigKind(kind) {
		case KindText:
			return c.parseText(body)
		case KindJson:
			return c.parseJson(body)
		case KindNumeric, KindBoolean, KindDate:
			return c.parseScalar(ConfigKind(kind), body)
		case KindCtid:
			*c = Ctid()
			return nil
		default:
			return NewErrInvalidConfigf("unknown field configuration variant %q", kind)
		}
	}
	return NewErrInvalidConfig("empty field configuration")
}

func (c *SearchFieldConfig) parseText(body json.RawMessage) error {
	obj, err := configObject(body, KindText, []string{"indexed", "fast", "stored", "fieldnorms", "tokenizer", "record", "normalizer"})
	if err != nil {
		return err
	}
	out := DefaultText()
	if err := boolOpt(obj, "indexed", &out.Indexed); err != nil {
		return err
	}
	if err := boolOpt(obj, "fast", &out.Fast); err != nil {
		return err
	}
	if err := boolOpt(obj, "stored", &out.Stored); err != nil {
		return err
	}
	if err := boolOpt(obj, "fieldnorms", &out.Fieldnorms); err != nil {
		return err
	}
	if err := decodeOpt(obj, "tokenizer", &out.Tokenizer); err != nil {
		return err
	}
	if err := decodeOpt(obj, "record", &out.Record); err != nil {
		return err
	}
	if err := decodeOpt(obj, "normalizer", &out.Normalizer); err != nil {
		return err
	}
	*c = out
	return nil
}

func (c *SearchFieldConfig) parseJson(body json.RawMessage) error {
	obj, err := configObject(body, KindJson, []string{"indexed", "fast", "stored", "expand_dots", "tokenizer", "record", "normalizer"})
	if err != nil {
		return err
	}
	out := DefaultJson()
	if err := boolOpt(obj, "indexed", &out.Indexed); err != nil {
		return err
	}
	if err := boolOpt(obj, "fast", &out.Fast); err != nil {
		return err
	}
	if err := boolOpt(obj, "stored", &out.Stored); err != nil {
		return err
	}
	if err := boolOpt(obj, "expand_dots", &out.ExpandDots); err != nil {
		return err
	}
	if err := decodeOpt(obj, "tokenizer", &out.Tokenizer); err != nil {
		return err
	}
	if err := decodeOpt(obj, "record", &out.Record); err != nil {
		return err
	}
	if err := decodeOpt(obj, "normalizer", &out.Normalizer); err != nil {
		return err
	}
	*c = out
	return nil
}

func (c *SearchFieldConfig) parseScalar(kind ConfigKind, body json.RawMessage) error {
	obj, err := configObject(body, kind, []string{"indexed", "fast", "stored"})
	if err != nil {
		return err
	}
	var out SearchFieldConfig
	switch kind {
	case KindNumeric:
		out = DefaultNumeric()
	case KindBoolean:
		out = DefaultBoolean()
	case KindDate:
		out = DefaultDate()
	}
	if err := boolOpt(obj, "indexed", &out.Indexed); err != nil {
		return err
	}
	if err := boolOpt(obj, "fast", &out.Fast); err != nil {
		return err
	}
	if err := boolOpt(obj, "stored", &out.Stored); err != nil {
		return err
	}
	*c = out
	return nil
}

// configObject decodes a variant body, requiring a JSON object and
// rejecting keys outside the recognized set.
func configObject(body json.RawMessage, kind ConfigKind, valid []string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, NewErrInvalidConfigf("expected a JSON object for %s configuration", kind)
	}
	for key := range obj {
		if !foundItem(valid, key) {
			return nil, NewErrInvalidConfigf("unknown key '%s' in %s configuration", key, kind)
		}
	}
	return obj, nil
}

func foundItem(items []string, item string) bool {
	for _, i := range items {
		if item == i {
			return true
		}
	}
	return false
}

// boolOpt overwrites *dst when key is present; the value must be a
// JSON boolean.
func boolOpt(obj map[string]json.RawMessage, key string, dst *bool) error {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return NewErrInvalidConfigf("'%s' field should be a boolean", key)
	}
	*dst = v
	return nil
}

func decodeOpt(obj map[string]json.RawMessage, key string, dst interface{}) error {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(NewErrInvalidConfigf("invalid '%s' value", key), "%v", err)
	}
	return nil
}

// textOptions converts a Text configuration into engine field options.
// Calling it with any other kind is a caller bug.
func (c SearchFieldConfig) textOptions() index.FieldOptions {
	if c.Kind != KindText {
		panic("attempted to convert non-text search field config to text index options")
	}
	opts := index.FieldOptions{
		Indexed: c.Indexed,
		Stored:  c.Stored,
		Fast:    c.Fast,
	}
	if c.Fast {
		opts.FastNormalizer = c.Normalizer.Name()
	}
	if c.Indexed {
		opts.Tokenizer = c.Tokenizer.Name()
		opts.Record = c.Record
		opts.Fieldnorms = c.Fieldnorms
	}
	return opts
}

// numericOptions converts a Numeric or Boolean configuration into
// engine field options. Boolean fields share the numeric layout.
func (c SearchFieldConfig) numericOptions() index.FieldOptions {
	if c.Kind != KindNumeric && c.Kind != KindBoolean {
		panic("attempted to convert non-numeric search field config to numeric index options")
	}
	return index.FieldOptions{
		Indexed: c.Indexed,
		Stored:  c.Stored,
		Fast:    c.Fast,
	}
}

// jsonOptions converts a Json configuration into engine field options.
func (c SearchFieldConfig) jsonOptions() index.FieldOptions {
	if c.Kind != KindJson {
		panic("attempted to convert non-json search field config to json index options")
	}
	opts := index.FieldOptions{
		Indexed:    c.Indexed,
		Stored:     c.Stored,
		Fast:       c.Fast,
		ExpandDots: c.ExpandDots,
	}
	if c.Fast {
		opts.FastNormalizer = c.Normalizer.Name()
	}
	if c.Indexed {
		opts.Tokenizer = c.Tokenizer.Name()
		opts.Record = c.Record
	}
	return opts
}

// dateOptions converts a Date configuration into engine field options.
func (c SearchFieldConfig) dateOptions() index.FieldOptions {
	if c.Kind != KindDate {
		panic("attempted to convert non-date search field config to date index options")
	}
	return index.FieldOptions{
		Indexed: c.Indexed,
		Stored:  c.Stored,
		Fast:    c.Fast,
	}
}
