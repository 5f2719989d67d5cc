// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package index

import (
	"encoding/json"

	"github.com/lcp202406/paradedb/errors"
)

// FieldID is the opaque handle the engine assigns to a registered field.
// IDs are stable for the lifetime of the schema that produced them.
type FieldID uint32

// FieldType enumerates the physical value types the engine can index.
type FieldType int

const (
	FieldTypeStr FieldType = iota
	FieldTypeU64
	FieldTypeI64
	FieldTypeF64
	FieldTypeBool
	FieldTypeDate
	FieldTypeJson
	FieldTypeBytes
	FieldTypeFacet
	FieldTypeIpAddr
)

func (t FieldType) String() string {
	switch t {
	case FieldTypeStr:
		return "str"
	case FieldTypeU64:
		return "u64"
	case FieldTypeI64:
		return "i64"
	case FieldTypeF64:
		return "f64"
	case FieldTypeBool:
		return "bool"
	case FieldTypeDate:
		return "date"
	case FieldTypeJson:
		return "json"
	case FieldTypeBytes:
		return "bytes"
	case FieldTypeFacet:
		return "facet"
	case FieldTypeIpAddr:
		return "ip"
	default:
		return "unknown"
	}
}

// IndexRecordOption controls how much detail the posting lists record
// for an indexed field.
type IndexRecordOption int

const (
	// IndexRecordBasic records document ids only.
	IndexRecordBasic IndexRecordOption = iota
	// IndexRecordWithFreqs additionally records term frequency.
	IndexRecordWithFreqs
	// IndexRecordWithFreqsAndPositions additionally records term
	// frequency and term positions.
	IndexRecordWithFreqsAndPositions
)

func (o IndexRecordOption) String() string {
	switch o {
	case IndexRecordBasic:
		return "basic"
	case IndexRecordWithFreqs:
		return "freq"
	case IndexRecordWithFreqsAndPositions:
		return "position"
	default:
		return "unknown"
	}
}

func (o IndexRecordOption) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *IndexRecordOption) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "unmarshalling index record option")
	}
	switch s {
	case "basic":
		*o = IndexRecordBasic
	case "freq":
		*o = IndexRecordWithFreqs
	case "position":
		*o = IndexRecordWithFreqsAndPositions
	default:
		return errors.Errorf("unknown index record option %q", s)
	}
	return nil
}

// FieldOptions describes how the engine should treat a registered field.
// The text and json members are ignored for other field types.
type FieldOptions struct {
	Indexed bool
	Stored  bool
	Fast    bool

	// Text and json indexing options.
	Tokenizer  string
	Record     IndexRecordOption
	Fieldnorms bool

	// Fast-value normalization for text and json fields.
	FastNormalizer string

	// Json options.
	ExpandDots bool
}

// FieldEntry is the engine-side record of a registered field.
type FieldEntry struct {
	Name    string
	Type    FieldType
	Options FieldOptions
}

// TypedField pairs a field's physical type with its id. It is the unit
// of field resolution used by query compilation.
type TypedField struct {
	Type  FieldType
	Field FieldID
}
