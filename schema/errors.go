// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package schema

import (
	"fmt"

	"github.com/lcp202406/paradedb/errors"
)

const (
	ErrUnsupportedType errors.Code = "ErrUnsupportedType"
	ErrNoKeyField      errors.Code = "ErrNoKeyField"
	ErrNoCtidField     errors.Code = "ErrNoCtidField"
	ErrInvalidConfig   errors.Code = "ErrInvalidConfig"
)

func NewErrUnsupportedType(columnType string) error {
	return errors.New(
		ErrUnsupportedType,
		fmt.Sprintf("unsupported column type '%s'", columnType),
	)
}

func NewErrNoKeyField(keyIndex, numFields int) error {
	return errors.New(
		ErrNoKeyField,
		fmt.Sprintf("key field index %d is not a valid position among %d declared fields", keyIndex, numFields),
	)
}

func NewErrNoCtidField() error {
	return errors.New(
		ErrNoCtidField,
		"no ctid field specified for search index",
	)
}

func NewErrInvalidConfig(msg string) error {
	return errors.New(ErrInvalidConfig, msg)
}

func NewErrInvalidConfigf(format string, a ...interface{}) error {
	return errors.New(ErrInvalidConfig, fmt.Sprintf(format, a...))
}
