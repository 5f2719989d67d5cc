// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package query

import (
	"time"

	"github.com/lcp202406/paradedb/errors"
	"github.com/lcp202406/paradedb/index"
)

// FieldLookup is the capability the compiler needs from a schema:
// resolve a name to a physical field, and enumerate every field for
// unqualified term search. Implementations must be immutable for the
// duration of a compile call.
type FieldLookup interface {
	// ResolveField returns the physical type and id registered for
	// name, if any.
	ResolveField(name string) (index.TypedField, bool)
	// TypedFields lists every field's physical type and id.
	TypedFields() []index.TypedField
}

// Timestamp bounds arrive as strings; the seconds-precision form is
// tried first, then the fractional form.
const (
	dateFormatSeconds    = "2006-01-02T15:04:05Z"
	dateFormatFractional = "2006-01-02T15:04:05.999999999Z"
)

// Compile lowers a query input tree into one executable engine query.
// Each leaf validates its field against the schema and encodes its
// literal value per the field's declared type. Compilation is pure:
// it reads the tree, the lookup and the parser and produces either a
// query or an error, with no side effects.
func Compile(input SearchQueryInput, fields FieldLookup, parser index.QueryParser) (index.Query, error) {
	switch {
	case input.All != nil:
		return &index.AllQuery{}, nil

	case input.Boolean != nil:
		b := input.Boolean
		clauses := make([]index.BooleanClause, 0, len(b.Must)+len(b.Should)+len(b.MustNot))
		for _, sub := range b.Must {
			q, err := Compile(sub, fields, parser)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, index.BooleanClause{Occur: index.OccurMust, Query: q})
		}
		for _, sub := range b.Should {
			q, err := Compile(sub, fields, parser)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, index.BooleanClause{Occur: index.OccurShould, Query: q})
		}
		for _, sub := range b.MustNot {
			q, err := Compile(sub, fields, parser)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, index.BooleanClause{Occur: index.OccurMustNot, Query: q})
		}
		return index.NewBooleanQuery(clauses), nil

	case input.Boost != nil:
		inner, err := Compile(deref(input.Boost.Query), fields, parser)
		if err != nil {
			return nil, err
		}
		return index.NewBoostQuery(inner, input.Boost.Boost), nil

	case input.ConstScore != nil:
		inner, err := Compile(deref(input.ConstScore.Query), fields, parser)
		if err != nil {
			return nil, err
		}
		return index.NewConstScoreQuery(inner, input.ConstScore.Score), nil

	case input.DisjunctionMax != nil:
		d := input.DisjunctionMax
		disjuncts := make([]index.Query, 0, len(d.Disjuncts))
		for _, sub := range d.Disjuncts {
			q, err := Compile(sub, fields, parser)
			if err != nil {
				return nil, err
			}
			disjuncts = append(disjuncts, q)
		}
		if d.TieBreaker != nil {
			return index.NewDisjunctionMaxQueryWithTieBreaker(disjuncts, *d.TieBreaker), nil
		}
		return index.NewDisjunctionMaxQuery(disjuncts), nil

	case input.FastFieldRangeWeight != nil:
		f := input.FastFieldRangeWeight
		tf, ok := fields.ResolveField(f.Field)
		if !ok || (tf.Type != index.FieldTypeU64 && tf.Type != index.FieldTypeI64) {
			return nil, NewErrWrongFieldType(f.Field)
		}
		return index.NewFastFieldRangeQuery(f.Field, f.LowerBound.toIndexBound(), f.UpperBound.toIndexBound()), nil

	case input.FuzzyTerm != nil:
		f := input.FuzzyTerm
		tf, ok := fields.ResolveField(f.Field)
		if !ok || tf.Type != index.FieldTypeStr {
			return nil, NewErrWrongFieldType(f.Field)
		}
		// The value becomes one literal term; no tokenization.
		term := index.TermFromFieldText(tf.Field, f.Value)
		distance := uint8(1)
		if f.Distance != nil {
			distance = *f.Distance
		}
		costOne := false
		if f.TranspositionCostOne != nil {
			costOne = *f.TranspositionCostOne
		}
		if f.Prefix != nil && *f.Prefix {
			return index.NewFuzzyTermQueryPrefix(term, distance, costOne), nil
		}
		return index.NewFuzzyTermQuery(term, distance, costOne), nil

	case input.MoreLikeThis != nil:
		return compileMoreLikeThis(input.MoreLikeThis, fields)

	case input.Parse != nil:
		q, err := parser.ParseQuery(input.Parse.QueryString)
		if err != nil {
			return nil, NewErrParse(input.Parse.QueryString, err)
		}
		return q, nil

	case input.Phrase != nil:
		p := input.Phrase
		tf, ok := fields.ResolveField(p.Field)
		if !ok || tf.Type != index.FieldTypeStr {
			return nil, NewErrWrongFieldType(p.Field)
		}
		q := index.NewPhraseQuery(phraseTerms(tf.Field, p.Phrases))
		if p.Slop != nil {
			q.SetSlop(*p.Slop)
		}
		return q, nil

	case input.PhrasePrefix != nil:
		p := input.PhrasePrefix
		tf, ok := fields.ResolveField(p.Field)
		if !ok || tf.Type != index.FieldTypeStr {
			return nil, NewErrWrongFieldType(p.Field)
		}
		q := index.NewPhrasePrefixQuery(phraseTerms(tf.Field, p.Phrases))
		if p.MaxExpansions != nil {
			q.SetMaxExpansions(*p.MaxExpansions)
		}
		return q, nil

	case input.Range != nil:
		r := input.Range
		tf, ok := fields.ResolveField(r.Field)
		if !ok {
			return nil, NewErrWrongFieldType(r.Field)
		}
		lower, err := boundToTermBound(r.LowerBound, tf)
		if err != nil {
			return nil, err
		}
		upper, err := boundToTermBound(r.UpperBound, tf)
		if err != nil {
			return nil, err
		}
		return index.NewRangeQuery(r.Field, tf.Type, lower, upper), nil

	case input.Regex != nil:
		r := input.Regex
		tf, ok := fields.ResolveField(r.Field)
		if !ok || tf.Type != index.FieldTypeStr {
			return nil, NewErrWrongFieldType(r.Field)
		}
		q, err := index.NewRegexQuery(r.Pattern, tf.Field)
		if err != nil {
			return nil, NewErrRegex(r.Pattern, err)
		}
		return q, nil

	case input.Term != nil:
		t := input.Term
		if t.Field != nil {
			tf, ok := fields.ResolveField(*t.Field)
			if !ok {
				return nil, NewErrNonIndexedField(*t.Field)
			}
			term, err := valueToTerm(tf.Field, t.Value, tf.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "encoding value for field '%s'", *t.Field)
			}
			return index.NewTermQuery(term, index.IndexRecordWithFreqsAndPositions), nil
		}
		// No field given: search the value across every field that can
		// encode it. Encoding failure just means the field doesn't
		// participate.
		var terms []index.Term
		for _, tf := range fields.TypedFields() {
			if term, err := valueToTerm(tf.Field, t.Value, tf.Type); err == nil {
				terms = append(terms, term)
			}
		}
		return index.NewTermSetQuery(terms), nil

	case input.TermSet != nil:
		terms := make([]index.Term, 0, len(input.TermSet.Terms))
		for _, pair := range input.TermSet.Terms {
			tf, ok := fields.ResolveField(pair.Field)
			if !ok {
				return nil, NewErrNonIndexedField(pair.Field)
			}
			term, err := valueToTerm(tf.Field, pair.Value, tf.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "encoding value for field '%s'", pair.Field)
			}
			terms = append(terms, term)
		}
		return index.NewTermSetQuery(terms), nil

	default:
		// The zero value compiles as Empty.
		return &index.EmptyQuery{}, nil
	}
}

func deref(q *SearchQueryInput) SearchQueryInput {
	if q == nil {
		return SearchQueryInput{}
	}
	return *q
}

func phraseTerms(field index.FieldID, phrases []string) []index.Term {
	terms := make([]index.Term, len(phrases))
	for i, phrase := range phrases {
		terms[i] = index.TermFromFieldText(field, phrase)
	}
	return terms
}

func boundToTermBound(b Bound, tf index.TypedField) (index.TermBound, error) {
	if b.Kind == index.BoundUnbounded {
		return index.TermBound{Kind: index.BoundUnbounded}, nil
	}
	term, err := valueToTerm(tf.Field, b.Value, tf.Type)
	if err != nil {
		return index.TermBound{}, err
	}
	return index.TermBound{Kind: b.Kind, Term: term}, nil
}

func compileMoreLikeThis(m *MoreLikeThisInput, fields FieldLookup) (index.Query, error) {
	builder := index.NewMoreLikeThisQueryBuilder()
	if m.MinDocFrequency != nil {
		builder = builder.WithMinDocFrequency(*m.MinDocFrequency)
	}
	if m.MaxDocFrequency != nil {
		builder = builder.WithMaxDocFrequency(*m.MaxDocFrequency)
	}
	if m.MinTermFrequency != nil {
		builder = builder.WithMinTermFrequency(*m.MinTermFrequency)
	}
	if m.MaxQueryTerms != nil {
		builder = builder.WithMaxQueryTerms(*m.MaxQueryTerms)
	}
	if m.MinWordLength != nil {
		builder = builder.WithMinWordLength(*m.MinWordLength)
	}
	if m.MaxWordLength != nil {
		builder = builder.WithMaxWordLength(*m.MaxWordLength)
	}
	if m.BoostFactor != nil {
		builder = builder.WithBoostFactor(*m.BoostFactor)
	}
	if m.StopWords != nil {
		builder = builder.WithStopWords(m.StopWords)
	}

	// Group example values by resolved field; duplicate field names
	// accumulate. Any type mismatch fails the whole query.
	var grouped []index.DocumentFieldValues
	byField := make(map[index.FieldID]int)
	for _, pair := range m.Fields {
		tf, ok := fields.ResolveField(pair.Field)
		if !ok || !valueMatchesFieldType(pair.Value, tf.Type) {
			return nil, NewErrWrongFieldType(pair.Field)
		}
		i, ok := byField[tf.Field]
		if !ok {
			i = len(grouped)
			byField[tf.Field] = i
			grouped = append(grouped, index.DocumentFieldValues{Field: tf.Field})
		}
		grouped[i].Values = append(grouped[i].Values, pair.Value)
	}
	return builder.WithDocumentFields(grouped), nil
}

// valueMatchesFieldType reports whether a literal's runtime shape lines
// up with the field's physical type.
func valueMatchesFieldType(v Value, t index.FieldType) bool {
	switch v.Kind() {
	case ValueKindStr:
		return t == index.FieldTypeStr
	case ValueKindU64:
		return t == index.FieldTypeU64
	case ValueKindI64:
		return t == index.FieldTypeI64
	case ValueKindF64:
		return t == index.FieldTypeF64
	case ValueKindBool:
		return t == index.FieldTypeBool
	case ValueKindDate:
		return t == index.FieldTypeDate
	case ValueKindFacet:
		return t == index.FieldTypeFacet
	case ValueKindBytes:
		return t == index.FieldTypeBytes
	case ValueKindJson:
		return t == index.FieldTypeJson
	case ValueKindIpAddr:
		return t == index.FieldTypeIpAddr
	default:
		return false
	}
}

// valueToTerm encodes a literal against a field of the given physical
// type. Mismatches are recoverable errors with two deliberate
// exceptions: an unsigned literal binds to a signed field by
// reinterpretation, and a string literal binds to a date field by
// timestamp parsing. Structured values can never become a single term;
// a caller constructing such an input has broken the contract and gets
// a panic, not an error.
func valueToTerm(field index.FieldID, value Value, fieldType index.FieldType) (index.Term, error) {
	switch value.Kind() {
	case ValueKindStr:
		switch fieldType {
		case index.FieldTypeStr:
			return index.TermFromFieldText(field, value.Str()), nil
		case index.FieldTypeDate:
			// Serialization turns dates into strings; parse them back,
			// first without sub-second precision, then with it.
			t, err := time.Parse(dateFormatSeconds, value.Str())
			if err != nil {
				t, err = time.Parse(dateFormatFractional, value.Str())
				if err != nil {
					return index.Term{}, NewErrFieldTypeMismatch()
				}
			}
			return index.TermFromFieldDate(field, t), nil
		default:
			return index.Term{}, NewErrFieldTypeMismatch()
		}
	case ValueKindPreTokStr:
		panic("pre-tokenized text cannot be converted to term")
	case ValueKindU64:
		// Non-negative numbers decode as unsigned even when the field
		// is signed; the field type decides the term type.
		switch fieldType {
		case index.FieldTypeU64:
			return index.TermFromFieldU64(field, value.U64()), nil
		case index.FieldTypeI64:
			return index.TermFromFieldI64(field, int64(value.U64())), nil
		default:
			return index.Term{}, NewErrFieldTypeMismatch()
		}
	case ValueKindI64:
		if fieldType != index.FieldTypeI64 {
			return index.Term{}, NewErrFieldTypeMismatch()
		}
		return index.TermFromFieldI64(field, value.I64()), nil
	case ValueKindF64:
		if fieldType != index.FieldTypeF64 {
			return index.Term{}, NewErrFieldTypeMismatch()
		}
		return index.TermFromFieldF64(field, value.F64()), nil
	case ValueKindBool:
		if fieldType != index.FieldTypeBool {
			return index.Term{}, NewErrFieldTypeMismatch()
		}
		return index.TermFromFieldBool(field, value.Bool()), nil
	case ValueKindDate:
		if fieldType != index.FieldTypeDate {
			return index.Term{}, NewErrFieldTypeMismatch()
		}
		return index.TermFromFieldDate(field, value.Date()), nil
	case ValueKindFacet:
		if fieldType != index.FieldTypeFacet {
			return index.Term{}, NewErrFieldTypeMismatch()
		}
		return index.TermFromFacet(field, value.Facet()...), nil
	case ValueKindBytes:
		if fieldType != index.FieldTypeBytes {
			return index.Term{}, NewErrFieldTypeMismatch()
		}
		return index.TermFromFieldBytes(field, value.Bytes()), nil
	case ValueKindJson:
		panic("json object cannot be converted to term")
	case ValueKindIpAddr:
		if fieldType != index.FieldTypeIpAddr {
			return index.Term{}, NewErrFieldTypeMismatch()
		}
		return index.TermFromFieldIpAddr(field, value.IpAddr()), nil
	default:
		return index.Term{}, NewErrFieldTypeMismatch()
	}
}
