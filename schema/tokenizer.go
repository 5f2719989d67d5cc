// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package schema

import (
	"encoding/json"

	"github.com/lcp202406/paradedb/errors"
)

// SearchTokenizer selects the analyzer applied to a text or json field
// at index time. Tokenization itself happens inside the engine; the
// schema only records the selection.
type SearchTokenizer string

const (
	TokenizerDefault    SearchTokenizer = "default"
	TokenizerRaw        SearchTokenizer = "raw"
	TokenizerEnStem     SearchTokenizer = "en_stem"
	TokenizerWhitespace SearchTokenizer = "whitespace"
)

func (t SearchTokenizer) Name() string {
	return string(t)
}

func (t *SearchTokenizer) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "unmarshalling tokenizer")
	}
	switch SearchTokenizer(s) {
	case TokenizerDefault, TokenizerRaw, TokenizerEnStem, TokenizerWhitespace:
		*t = SearchTokenizer(s)
	default:
		return errors.Errorf("unknown tokenizer %q", s)
	}
	return nil
}

// SearchNormalizer selects how fast-field values of a text or json
// field are normalized before storage.
type SearchNormalizer string

const (
	NormalizerRaw       SearchNormalizer = "raw"
	NormalizerLowercase SearchNormalizer = "lowercase"
)

func (n SearchNormalizer) Name() string {
	return string(n)
}

func (n *SearchNormalizer) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "unmarshalling normalizer")
	}
	switch SearchNormalizer(s) {
	case NormalizerRaw, NormalizerLowercase:
		*n = SearchNormalizer(s)
	default:
		return errors.Errorf("unknown normalizer %q", s)
	}
	return nil
}
