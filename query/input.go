// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package query defines the serializable query-input algebra and its
// compilation into executable engine queries. A query input is a tree
// of variants built per request, compiled once against a schema, and
// discarded.
package query

import (
	"encoding/json"

	"github.com/lcp202406/paradedb/errors"
)

// SearchQueryInput is the tagged union over all query variants. Exactly
// one member is non-nil; the zero value means Empty. On the wire each
// variant is a single-key object named after the variant, except the
// payload-free All and Empty which are bare strings.
type SearchQueryInput struct {
	All                  *AllInput                  `json:"-"`
	Boolean              *BooleanInput              `json:"-"`
	Boost                *BoostInput                `json:"-"`
	ConstScore           *ConstScoreInput           `json:"-"`
	DisjunctionMax       *DisjunctionMaxInput       `json:"-"`
	Empty                *EmptyInput                `json:"-"`
	FastFieldRangeWeight *FastFieldRangeWeightInput `json:"-"`
	FuzzyTerm            *FuzzyTermInput            `json:"-"`
	MoreLikeThis         *MoreLikeThisInput         `json:"-"`
	Parse                *ParseInput                `json:"-"`
	Phrase               *PhraseInput               `json:"-"`
	PhrasePrefix         *PhrasePrefixInput         `json:"-"`
	Range                *RangeInput                `json:"-"`
	Regex                *RegexInput                `json:"-"`
	Term                 *TermInput                 `json:"-"`
	TermSet              *TermSetInput              `json:"-"`
}

// AllInput matches every document.
type AllInput struct{}

// EmptyInput matches no documents.
type EmptyInput struct{}

// BooleanInput combines three independent clause lists: all of must,
// at least scoring-participation of should, none of must_not. All
// three empty is legal.
type BooleanInput struct {
	Must    []SearchQueryInput `json:"must"`
	Should  []SearchQueryInput `json:"should"`
	MustNot []SearchQueryInput `json:"must_not"`
}

// BoostInput scales the wrapped query's score.
type BoostInput struct {
	Query *SearchQueryInput `json:"query"`
	Boost float32           `json:"boost"`
}

// ConstScoreInput gives every match of the wrapped query a fixed score.
type ConstScoreInput struct {
	Query *SearchQueryInput `json:"query"`
	Score float32           `json:"score"`
}

// DisjunctionMaxInput scores by the best disjunct; a tie breaker, when
// present, credits the remaining disjuncts proportionally.
type DisjunctionMaxInput struct {
	Disjuncts  []SearchQueryInput `json:"disjuncts"`
	TieBreaker *float32           `json:"tie_breaker,omitempty"`
}

// FastFieldRangeWeightInput range-scans a numeric fast field over raw
// unsigned bounds.
type FastFieldRangeWeightInput struct {
	Field      string   `json:"field"`
	LowerBound U64Bound `json:"lower_bound"`
	UpperBound U64Bound `json:"upper_bound"`
}

// FuzzyTermInput matches terms within an edit distance of value.
// The wire name of the transposition flag is kept as external callers
// already send it.
type FuzzyTermInput struct {
	Field                string `json:"field"`
	Value                string `json:"value"`
	Distance             *uint8 `json:"distance,omitempty"`
	TranspositionCostOne *bool  `json:"tranposition_cost_one,omitempty"`
	Prefix               *bool  `json:"prefix,omitempty"`
}

// MoreLikeThisInput finds documents similar to the given field/value
// examples. Absent knobs mean "use the similarity engine's default",
// not zero.
type MoreLikeThisInput struct {
	MinDocFrequency  *uint64      `json:"min_doc_frequency,omitempty"`
	MaxDocFrequency  *uint64      `json:"max_doc_frequency,omitempty"`
	MinTermFrequency *int         `json:"min_term_frequency,omitempty"`
	MaxQueryTerms    *int         `json:"max_query_terms,omitempty"`
	MinWordLength    *int         `json:"min_word_length,omitempty"`
	MaxWordLength    *int         `json:"max_word_length,omitempty"`
	BoostFactor      *float32     `json:"boost_factor,omitempty"`
	StopWords        []string     `json:"stop_words,omitempty"`
	Fields           []FieldValue `json:"fields"`
}

// ParseInput delegates a free-text string to the engine's query parser.
type ParseInput struct {
	QueryString string `json:"query_string"`
}

// PhraseInput matches the given terms in order; slop allows that many
// position edits.
type PhraseInput struct {
	Field   string   `json:"field"`
	Phrases []string `json:"phrases"`
	Slop    *uint32  `json:"slop,omitempty"`
}

// PhrasePrefixInput matches phrases whose final term is a prefix.
type PhrasePrefixInput struct {
	Field         string   `json:"field"`
	Phrases       []string `json:"phrases"`
	MaxExpansions *uint32  `json:"max_expansions,omitempty"`
}

// RangeInput matches values of a typed field between two bounds.
// Either side may be unbounded.
type RangeInput struct {
	Field      string `json:"field"`
	LowerBound Bound  `json:"lower_bound"`
	UpperBound Bound  `json:"upper_bound"`
}

// RegexInput matches a text field against a pattern.
type RegexInput struct {
	Field   string `json:"field"`
	Pattern string `json:"pattern"`
}

// TermInput matches one exact value. A nil field means "search the
// value across every field that accepts it".
type TermInput struct {
	Field *string `json:"field"`
	Value Value   `json:"value"`
}

// TermSetInput matches documents containing any of the given
// field/value pairs.
type TermSetInput struct {
	Terms []FieldValue `json:"terms"`
}

// FieldValue is a (field name, value) pair, serialized as a two-element
// array.
type FieldValue struct {
	Field string
	Value Value
}

func (fv FieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{fv.Field, fv.Value})
}

func (fv *FieldValue) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return errors.Wrap(err, "unmarshalling field/value pair")
	}
	if len(parts) != 2 {
		return errors.Errorf("field/value pair must have two elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &fv.Field); err != nil {
		return errors.Wrap(err, "unmarshalling field name")
	}
	return json.Unmarshal(parts[1], &fv.Value)
}

func (q SearchQueryInput) MarshalJSON() ([]byte, error) {
	switch {
	case q.All != nil:
		return json.Marshal("All")
	case q.Boolean != nil:
		return marshalVariant("Boolean", q.Boolean)
	case q.Boost != nil:
		return marshalVariant("Boost", q.Boost)
	case q.ConstScore != nil:
		return marshalVariant("ConstScore", q.ConstScore)
	case q.DisjunctionMax != nil:
		return marshalVariant("DisjunctionMax", q.DisjunctionMax)
	case q.FastFieldRangeWeight != nil:
		return marshalVariant("FastFieldRangeWeight", q.FastFieldRangeWeight)
	case q.FuzzyTerm != nil:
		return marshalVariant("FuzzyTerm", q.FuzzyTerm)
	case q.MoreLikeThis != nil:
		return marshalVariant("MoreLikeThis", q.MoreLikeThis)
	case q.Parse != nil:
		return marshalVariant("Parse", q.Parse)
	case q.Phrase != nil:
		return marshalVariant("Phrase", q.Phrase)
	case q.PhrasePrefix != nil:
		return marshalVariant("PhrasePrefix", q.PhrasePrefix)
	case q.Range != nil:
		return marshalVariant("Range", q.Range)
	case q.Regex != nil:
		return marshalVariant("Regex", q.Regex)
	case q.Term != nil:
		return marshalVariant("Term", q.Term)
	case q.TermSet != nil:
		return marshalVariant("TermSet", q.TermSet)
	default:
		// Empty, explicitly or as the zero value.
		return json.Marshal("Empty")
	}
}

func marshalVariant(name string, body interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{name: body})
}

func (q *SearchQueryInput) UnmarshalJSON(b []byte) error {
	*q = SearchQueryInput{}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch s {
		case "All":
			q.All = &AllInput{}
			return nil
		case "Empty":
			q.Empty = &EmptyInput{}
			return nil
		default:
			return errors.Errorf("unknown query variant %q", s)
		}
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err != nil {
		return errors.Wrap(err, "unmarshalling query input")
	}
	if len(tagged) != 1 {
		return errors.Errorf("query input must have exactly one variant, got %d", len(tagged))
	}

	for name, raw := range tagged {
		switch name {
		case "All":
			q.All = &AllInput{}
			return nil
		case "Empty":
			q.Empty = &EmptyInput{}
			return nil
		case "Boolean":
			q.Boolean = &BooleanInput{}
			return json.Unmarshal(raw, q.Boolean)
		case "Boost":
			q.Boost = &BoostInput{}
			return json.Unmarshal(raw, q.Boost)
		case "ConstScore":
			q.ConstScore = &ConstScoreInput{}
			return json.Unmarshal(raw, q.ConstScore)
		case "DisjunctionMax":
			q.DisjunctionMax = &DisjunctionMaxInput{}
			return json.Unmarshal(raw, q.DisjunctionMax)
		case "FastFieldRangeWeight":
			q.FastFieldRangeWeight = &FastFieldRangeWeightInput{}
			return json.Unmarshal(raw, q.FastFieldRangeWeight)
		case "FuzzyTerm":
			q.FuzzyTerm = &FuzzyTermInput{}
			return json.Unmarshal(raw, q.FuzzyTerm)
		case "MoreLikeThis":
			q.MoreLikeThis = &MoreLikeThisInput{}
			return json.Unmarshal(raw, q.MoreLikeThis)
		case "Parse":
			q.Parse = &ParseInput{}
			return json.Unmarshal(raw, q.Parse)
		case "Phrase":
			q.Phrase = &PhraseInput{}
			return json.Unmarshal(raw, q.Phrase)
		case "PhrasePrefix":
			q.PhrasePrefix = &PhrasePrefixInput{}
			return json.Unmarshal(raw, q.PhrasePrefix)
		case "Range":
			q.Range = &RangeInput{}
			return json.Unmarshal(raw, q.Range)
		case "Regex":
			q.Regex = &RegexInput{}
			return json.Unmarshal(raw, q.Regex)
		case "Term":
			q.Term = &TermInput{}
			return json.Unmarshal(raw, q.Term)
		case "TermSet":
			q.TermSet = &TermSetInput{}
			return json.Unmarshal(raw, q.TermSet)
		default:
			return errors.Errorf("unknown query variant %q", name)
		}
	}
	return errors.New(errors.ErrUncoded, "empty query input")
}
