// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lcp202406/paradedb/errors"
)

func TestErrors(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		uncoded := newUncoded("uncoded error")
		fnf := newErrFieldNotFound("fld")
		inf := newErrIndexNotFound("idx")
		fnfCustom := errors.New(errFieldNotFound, "custom field message")

		tests := []struct {
			err    error
			target errors.Code
			exp    bool
		}{
			{
				err:    uncoded,
				target: errors.ErrUncoded,
				exp:    true,
			},
			{
				err:    uncoded,
				target: errFieldNotFound,
				exp:    false,
			},
			{
				err:    fnf,
				target: errFieldNotFound,
				exp:    true,
			},
			{
				err:    fnf,
				target: errIndexNotFound,
				exp:    false,
			},
			{
				err:    errors.Wrap(inf, "with message"),
				target: errIndexNotFound,
				exp:    true,
			},
			{
				err:    errors.Wrapf(fnf, "encoding value for field '%s'", "fld"),
				target: errFieldNotFound,
				exp:    true,
			},
			{
				err:    fnfCustom,
				target: errFieldNotFound,
				exp:    true,
			},
		}

		for i, test := range tests {
			t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
				got := errors.Is(test.err, test.target)
				assert.Equal(t, test.exp, got)
			})
		}
	})

	t.Run("WrapKeepsMessage", func(t *testing.T) {
		err := errors.Wrap(newErrFieldNotFound("fld"), "compiling query")
		assert.Equal(t, "compiling query: field not found: fld", err.Error())
	})
}

// Test error codes.

const (
	errFieldNotFound errors.Code = "FieldNotFound"
	errIndexNotFound errors.Code = "IndexNotFound"
)

func newUncoded(message string) error {
	return errors.New(
		errors.ErrUncoded,
		message,
	)
}

func newErrFieldNotFound(field string) error {
	return errors.New(
		errFieldNotFound,
		"field not found: "+field,
	)
}

func newErrIndexNotFound(index string) error {
	return errors.New(
		errIndexNotFound,
		"index not found: "+index,
	)
}
