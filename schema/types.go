// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package schema

import (
	"encoding/json"
	"strings"

	"github.com/lcp202406/paradedb/errors"
	"github.com/lcp202406/paradedb/index"
)

// SearchFieldType is the logical type a field is declared as. It
// determines which physical field type is registered with the engine
// and which literal values a query may bind against the field.
type SearchFieldType int

const (
	SearchFieldTypeText SearchFieldType = iota
	SearchFieldTypeI64
	SearchFieldTypeU64
	SearchFieldTypeF64
	SearchFieldTypeBool
	SearchFieldTypeJson
	SearchFieldTypeDate
)

func (t SearchFieldType) String() string {
	switch t {
	case SearchFieldTypeText:
		return "Text"
	case SearchFieldTypeI64:
		return "I64"
	case SearchFieldTypeU64:
		return "U64"
	case SearchFieldTypeF64:
		return "F64"
	case SearchFieldTypeBool:
		return "Bool"
	case SearchFieldTypeJson:
		return "Json"
	case SearchFieldTypeDate:
		return "Date"
	default:
		return "unknown"
	}
}

func (t SearchFieldType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *SearchFieldType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "unmarshalling search field type")
	}
	switch s {
	case "Text":
		*t = SearchFieldTypeText
	case "I64":
		*t = SearchFieldTypeI64
	case "U64":
		*t = SearchFieldTypeU64
	case "F64":
		*t = SearchFieldTypeF64
	case "Bool":
		*t = SearchFieldTypeBool
	case "Json":
		*t = SearchFieldTypeJson
	case "Date":
		*t = SearchFieldTypeDate
	default:
		return errors.Errorf("unknown search field type %q", s)
	}
	return nil
}

// indexType maps the logical type to the physical type registered with
// the engine.
func (t SearchFieldType) indexType() index.FieldType {
	switch t {
	case SearchFieldTypeText:
		return index.FieldTypeStr
	case SearchFieldTypeI64:
		return index.FieldTypeI64
	case SearchFieldTypeU64:
		return index.FieldTypeU64
	case SearchFieldTypeF64:
		return index.FieldTypeF64
	case SearchFieldTypeBool:
		return index.FieldTypeBool
	case SearchFieldTypeJson:
		return index.FieldTypeJson
	case SearchFieldTypeDate:
		return index.FieldTypeDate
	default:
		panic("unreachable search field type " + t.String())
	}
}

// InferFieldType maps a host column type name onto a logical field
// type. Unrecognized column types are an error, never a silent default.
func InferFieldType(columnType string) (SearchFieldType, error) {
	switch strings.ToLower(strings.TrimSpace(columnType)) {
	case "text", "varchar", "character varying", "char", "uuid":
		return SearchFieldTypeText, nil
	case "int2", "int4", "int8", "smallint", "integer", "int", "bigint":
		return SearchFieldTypeI64, nil
	case "oid", "xid":
		return SearchFieldTypeU64, nil
	case "float4", "float8", "real", "double precision", "numeric", "decimal":
		return SearchFieldTypeF64, nil
	case "bool", "boolean":
		return SearchFieldTypeBool, nil
	case "json", "jsonb":
		return SearchFieldTypeJson, nil
	case "date", "time", "timetz", "timestamp", "timestamptz",
		"time with time zone", "time without time zone",
		"timestamp with time zone", "timestamp without time zone":
		return SearchFieldTypeDate, nil
	default:
		return 0, NewErrUnsupportedType(columnType)
	}
}
