// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package index

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermEncodingPreservesOrder(t *testing.T) {
	// Bytewise order of the encodings must match numeric order; range
	// queries compare encodings directly.
	t.Run("u64", func(t *testing.T) {
		values := []uint64{0, 1, 255, 256, 1 << 32, 1<<64 - 1}
		for i := 1; i < len(values); i++ {
			a := TermFromFieldU64(0, values[i-1])
			b := TermFromFieldU64(0, values[i])
			assert.Negative(t, a.Compare(b), "%d vs %d", values[i-1], values[i])
		}
	})

	t.Run("i64", func(t *testing.T) {
		values := []int64{-1 << 63, -1000, -1, 0, 1, 1000, 1<<63 - 1}
		for i := 1; i < len(values); i++ {
			a := TermFromFieldI64(0, values[i-1])
			b := TermFromFieldI64(0, values[i])
			assert.Negative(t, a.Compare(b), "%d vs %d", values[i-1], values[i])
		}
	})

	t.Run("f64", func(t *testing.T) {
		values := []float64{-1e300, -2.5, -0.5, 0, 0.5, 2.5, 1e300}
		for i := 1; i < len(values); i++ {
			a := TermFromFieldF64(0, values[i-1])
			b := TermFromFieldF64(0, values[i])
			assert.Negative(t, a.Compare(b), "%g vs %g", values[i-1], values[i])
		}
	})

	t.Run("date", func(t *testing.T) {
		values := []time.Time{
			time.Date(1901, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC),
			time.Unix(0, 0),
			time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC),
			time.Date(2024, 7, 10, 12, 0, 0, 500000000, time.UTC),
		}
		for i := 1; i < len(values); i++ {
			a := TermFromFieldDate(0, values[i-1])
			b := TermFromFieldDate(0, values[i])
			assert.Negative(t, a.Compare(b), "%v vs %v", values[i-1], values[i])
		}
	})
}

func TestTermDateMicrosecondPrecision(t *testing.T) {
	// Sub-microsecond detail is dropped by the encoding.
	a := TermFromFieldDate(0, time.Date(2024, 7, 10, 12, 0, 0, 1000, time.UTC))
	b := TermFromFieldDate(0, time.Date(2024, 7, 10, 12, 0, 0, 1999, time.UTC))
	assert.True(t, a.Equal(b))

	c := TermFromFieldDate(0, time.Date(2024, 7, 10, 12, 0, 0, 2000, time.UTC))
	assert.False(t, a.Equal(c))
}

func TestTermCompareOrdersByFieldThenTypeThenValue(t *testing.T) {
	assert.Negative(t, TermFromFieldText(1, "z").Compare(TermFromFieldText(2, "a")))
	assert.Negative(t, TermFromFieldText(1, "z").Compare(TermFromFieldU64(1, 0))) // str type sorts before u64
	assert.Positive(t, TermFromFieldText(1, "b").Compare(TermFromFieldText(1, "a")))
	assert.Zero(t, TermFromFieldText(1, "a").Compare(TermFromFieldText(1, "a")))
}

func TestTermAccessors(t *testing.T) {
	term := TermFromFieldText(3, "hello")
	assert.Equal(t, FieldID(3), term.Field())
	assert.Equal(t, FieldTypeStr, term.Type())
	assert.Equal(t, "hello", term.Text())
	assert.Equal(t, []byte("hello"), term.ValueBytes())
}

func TestTermFacetEncoding(t *testing.T) {
	term := TermFromFacet(0, "lang", "en")
	assert.Equal(t, []byte("lang\x00en"), term.ValueBytes())
	assert.True(t, term.Equal(TermFromFacet(0, "lang", "en")))
	assert.False(t, term.Equal(TermFromFacet(0, "lang", "de")))
}

func TestTermIpAddrEncoding(t *testing.T) {
	v4 := TermFromFieldIpAddr(0, netip.MustParseAddr("192.168.0.1"))
	require.Len(t, v4.ValueBytes(), 16) // v4 stored as a mapped v6
	v6 := TermFromFieldIpAddr(0, netip.MustParseAddr("::ffff:192.168.0.1"))
	assert.True(t, v4.Equal(v6))
}

func TestTermFromFieldBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	term := TermFromFieldBytes(0, src)
	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, term.ValueBytes())
}

func TestNewTermSetQuerySortsAndDedups(t *testing.T) {
	terms := []Term{
		TermFromFieldText(2, "b"),
		TermFromFieldText(1, "b"),
		TermFromFieldText(1, "a"),
		TermFromFieldText(1, "b"),
	}
	q := NewTermSetQuery(terms)
	require.Len(t, q.Terms, 3)
	assert.True(t, q.Terms[0].Equal(TermFromFieldText(1, "a")))
	assert.True(t, q.Terms[1].Equal(TermFromFieldText(1, "b")))
	assert.True(t, q.Terms[2].Equal(TermFromFieldText(2, "b")))

	// The input slice is left alone.
	assert.True(t, terms[0].Equal(TermFromFieldText(2, "b")))
}
