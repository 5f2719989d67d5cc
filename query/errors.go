// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package query

import (
	"fmt"

	"github.com/lcp202406/paradedb/errors"
)

const (
	// ErrWrongFieldType: the field exists but its declared type cannot
	// satisfy the requested operation.
	ErrWrongFieldType errors.Code = "ErrWrongFieldType"
	// ErrNonIndexedField: the field name is not part of the schema.
	ErrNonIndexedField errors.Code = "ErrNonIndexedField"
	// ErrFieldTypeMismatch: a literal value's runtime shape cannot be
	// coerced to the target field's term encoding.
	ErrFieldTypeMismatch errors.Code = "ErrFieldTypeMismatch"
	// ErrQueryParse: the free-text grammar rejected the string.
	ErrQueryParse errors.Code = "ErrQueryParse"
	// ErrRegex: the pattern failed to compile.
	ErrRegex errors.Code = "ErrRegex"
)

func NewErrWrongFieldType(field string) error {
	return errors.New(
		ErrWrongFieldType,
		fmt.Sprintf("wrong field type for field: %s", field),
	)
}

func NewErrNonIndexedField(field string) error {
	return errors.New(
		ErrNonIndexedField,
		fmt.Sprintf("field '%s' is not part of the search index", field),
	)
}

func NewErrFieldTypeMismatch() error {
	return errors.New(
		ErrFieldTypeMismatch,
		"wrong type given for field",
	)
}

func NewErrParse(queryString string, cause error) error {
	return errors.New(
		ErrQueryParse,
		fmt.Sprintf("could not parse query string '%s': %v; make sure to use field:term pairs, and to capitalize AND/OR", queryString, cause),
	)
}

func NewErrRegex(pattern string, cause error) error {
	return errors.New(
		ErrRegex,
		fmt.Sprintf("could not build regex with pattern '%s': %v", pattern, cause),
	)
}
