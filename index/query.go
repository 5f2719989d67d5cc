// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package index

import (
	"regexp"
	"sort"

	"github.com/lcp202406/paradedb/errors"
)

const ErrRegexCompile errors.Code = "ErrRegexCompile"

// Query is the engine's executable query representation. Values are
// produced by query compilation and handed to the engine's search call;
// callers treat them as opaque.
type Query interface {
	queryNode()
}

// Occur describes how a clause participates in a boolean query.
type Occur int

const (
	OccurMust Occur = iota
	OccurShould
	OccurMustNot
)

func (o Occur) String() string {
	switch o {
	case OccurMust:
		return "must"
	case OccurShould:
		return "should"
	case OccurMustNot:
		return "must_not"
	default:
		return "unknown"
	}
}

// AllQuery matches every document.
type AllQuery struct{}

// EmptyQuery matches no documents.
type EmptyQuery struct{}

// BooleanClause pairs a subquery with its occurrence mode.
type BooleanClause struct {
	Occur Occur
	Query Query
}

// BooleanQuery combines subqueries with must/should/must-not semantics.
// A boolean query with no clauses is legal.
type BooleanQuery struct {
	Clauses []BooleanClause
}

func NewBooleanQuery(clauses []BooleanClause) *BooleanQuery {
	return &BooleanQuery{Clauses: clauses}
}

// BoostQuery scales the wrapped query's score by a constant factor.
type BoostQuery struct {
	Query Query
	Boost float32
}

func NewBoostQuery(query Query, boost float32) *BoostQuery {
	return &BoostQuery{Query: query, Boost: boost}
}

// ConstScoreQuery assigns every match of the wrapped query a fixed score.
type ConstScoreQuery struct {
	Query Query
	Score float32
}

func NewConstScoreQuery(query Query, score float32) *ConstScoreQuery {
	return &ConstScoreQuery{Query: query, Score: score}
}

// DisjunctionMaxQuery scores each document by its best-matching
// disjunct. A nonzero tie breaker additionally credits the remaining
// disjuncts, scaled by the tie breaker.
type DisjunctionMaxQuery struct {
	Disjuncts  []Query
	TieBreaker float32
}

func NewDisjunctionMaxQuery(disjuncts []Query) *DisjunctionMaxQuery {
	return &DisjunctionMaxQuery{Disjuncts: disjuncts}
}

func NewDisjunctionMaxQueryWithTieBreaker(disjuncts []Query, tieBreaker float32) *DisjunctionMaxQuery {
	return &DisjunctionMaxQuery{Disjuncts: disjuncts, TieBreaker: tieBreaker}
}

// BoundKind distinguishes the three shapes a range bound can take.
type BoundKind int

const (
	// The zero value is unbounded, so an absent bound means "no bound".
	BoundUnbounded BoundKind = iota
	BoundIncluded
	BoundExcluded
)

// TermBound is a range endpoint over an encoded term.
type TermBound struct {
	Kind BoundKind
	Term Term
}

// U64Bound is a range endpoint over a raw unsigned value, used by fast
// field range scans.
type U64Bound struct {
	Kind  BoundKind
	Value uint64
}

// FastFieldRangeQuery scans a numeric fast field for values inside the
// given bounds without touching posting lists.
type FastFieldRangeQuery struct {
	Field string
	Lower U64Bound
	Upper U64Bound
}

func NewFastFieldRangeQuery(field string, lower, upper U64Bound) *FastFieldRangeQuery {
	return &FastFieldRangeQuery{Field: field, Lower: lower, Upper: upper}
}

// FuzzyTermQuery matches terms within the given Levenshtein distance of
// the probe term. When Prefix is set, the probe matches term prefixes.
type FuzzyTermQuery struct {
	Term                 Term
	Distance             uint8
	TranspositionCostOne bool
	Prefix               bool
}

func NewFuzzyTermQuery(term Term, distance uint8, transpositionCostOne bool) *FuzzyTermQuery {
	return &FuzzyTermQuery{Term: term, Distance: distance, TranspositionCostOne: transpositionCostOne}
}

func NewFuzzyTermQueryPrefix(term Term, distance uint8, transpositionCostOne bool) *FuzzyTermQuery {
	return &FuzzyTermQuery{Term: term, Distance: distance, TranspositionCostOne: transpositionCostOne, Prefix: true}
}

// MoreLikeThisQuery finds documents similar to a set of per-field
// example values. Unset knobs fall back to the similarity engine's
// defaults, which is why they are pointers here.
type MoreLikeThisQuery struct {
	MinDocFrequency  *uint64
	MaxDocFrequency  *uint64
	MinTermFrequency *int
	MaxQueryTerms    *int
	MinWordLength    *int
	MaxWordLength    *int
	BoostFactor      *float32
	StopWords        []string
	DocumentFields   []DocumentFieldValues
}

// DocumentFieldValues holds the example values accumulated for one field.
type DocumentFieldValues struct {
	Field  FieldID
	Values []interface{}
}

// MoreLikeThisQueryBuilder assembles a MoreLikeThisQuery. Each With
// method overrides one similarity knob; knobs never set keep the
// engine default.
type MoreLikeThisQueryBuilder struct {
	query MoreLikeThisQuery
}

func NewMoreLikeThisQueryBuilder() *MoreLikeThisQueryBuilder {
	return &MoreLikeThisQueryBuilder{}
}

func (b *MoreLikeThisQueryBuilder) WithMinDocFrequency(v uint64) *MoreLikeThisQueryBuilder {
	b.query.MinDocFrequency = &v
	return b
}

func (b *MoreLikeThisQueryBuilder) WithMaxDocFrequency(v uint64) *MoreLikeThisQueryBuilder {
	b.query.MaxDocFrequency = &v
	return b
}

func (b *MoreLikeThisQueryBuilder) WithMinTermFrequency(v int) *MoreLikeThisQueryBuilder {
	b.query.MinTermFrequency = &v
	return b
}

func (b *MoreLikeThisQueryBuilder) WithMaxQueryTerms(v int) *MoreLikeThisQueryBuilder {
	b.query.MaxQueryTerms = &v
	return b
}

func (b *MoreLikeThisQueryBuilder) WithMinWordLength(v int) *MoreLikeThisQueryBuilder {
	b.query.MinWordLength = &v
	return b
}

func (b *MoreLikeThisQueryBuilder) WithMaxWordLength(v int) *MoreLikeThisQueryBuilder {
	b.query.MaxWordLength = &v
	return b
}

func (b *MoreLikeThisQueryBuilder) WithBoostFactor(v float32) *MoreLikeThisQueryBuilder {
	b.query.BoostFactor = &v
	return b
}

func (b *MoreLikeThisQueryBuilder) WithStopWords(words []string) *MoreLikeThisQueryBuilder {
	b.query.StopWords = words
	return b
}

// WithDocumentFields finalizes the builder with the example values.
func (b *MoreLikeThisQueryBuilder) WithDocumentFields(fields []DocumentFieldValues) *MoreLikeThisQuery {
	q := b.query
	q.DocumentFields = fields
	return &q
}

// PhraseQuery matches documents containing the given terms in order.
// Slop permits that many edits between phrase positions.
type PhraseQuery struct {
	Terms []Term
	Slop  uint32
}

func NewPhraseQuery(terms []Term) *PhraseQuery {
	return &PhraseQuery{Terms: terms}
}

func (q *PhraseQuery) SetSlop(slop uint32) {
	q.Slop = slop
}

// DefaultMaxExpansions bounds how many terms a phrase-prefix query will
// expand its trailing prefix into.
const DefaultMaxExpansions = 50

// PhrasePrefixQuery matches phrases whose last term is a prefix of an
// indexed term.
type PhrasePrefixQuery struct {
	Terms         []Term
	MaxExpansions uint32
}

func NewPhrasePrefixQuery(terms []Term) *PhrasePrefixQuery {
	return &PhrasePrefixQuery{Terms: terms, MaxExpansions: DefaultMaxExpansions}
}

func (q *PhrasePrefixQuery) SetMaxExpansions(n uint32) {
	q.MaxExpansions = n
}

// RangeQuery matches documents whose term for the field falls between
// the bounds. Either bound may be unbounded.
type RangeQuery struct {
	Field     string
	ValueType FieldType
	Lower     TermBound
	Upper     TermBound
}

func NewRangeQuery(field string, valueType FieldType, lower, upper TermBound) *RangeQuery {
	return &RangeQuery{Field: field, ValueType: valueType, Lower: lower, Upper: upper}
}

// RegexQuery matches text terms against a compiled pattern.
type RegexQuery struct {
	Field   FieldID
	Pattern string
	re      *regexp.Regexp
}

// NewRegexQuery compiles pattern for field. Compilation failure
// surfaces the regexp engine's diagnostic.
func NewRegexQuery(pattern string, field FieldID) (*RegexQuery, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.New(ErrRegexCompile, err.Error()), "compiling regex query")
	}
	return &RegexQuery{Field: field, Pattern: pattern, re: re}, nil
}

// Matches reports whether a term's text matches the pattern.
func (q *RegexQuery) Matches(text string) bool {
	return q.re.MatchString(text)
}

// TermQuery matches documents containing an exact term.
type TermQuery struct {
	Term   Term
	Record IndexRecordOption
}

func NewTermQuery(term Term, record IndexRecordOption) *TermQuery {
	return &TermQuery{Term: term, Record: record}
}

// TermSetQuery matches documents containing any term in the set.
type TermSetQuery struct {
	Terms []Term
}

// NewTermSetQuery sorts and deduplicates the given terms.
func NewTermSetQuery(terms []Term) *TermSetQuery {
	sorted := make([]Term, len(terms))
	copy(sorted, terms)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	dedup := sorted[:0]
	for i, t := range sorted {
		if i == 0 || !t.Equal(sorted[i-1]) {
			dedup = append(dedup, t)
		}
	}
	return &TermSetQuery{Terms: dedup}
}

func (*AllQuery) queryNode()            {}
func (*EmptyQuery) queryNode()          {}
func (*BooleanQuery) queryNode()        {}
func (*BoostQuery) queryNode()          {}
func (*ConstScoreQuery) queryNode()     {}
func (*DisjunctionMaxQuery) queryNode() {}
func (*FastFieldRangeQuery) queryNode() {}
func (*FuzzyTermQuery) queryNode()      {}
func (*MoreLikeThisQuery) queryNode()   {}
func (*PhraseQuery) queryNode()         {}
func (*PhrasePrefixQuery) queryNode()   {}
func (*RangeQuery) queryNode()          {}
func (*RegexQuery) queryNode()          {}
func (*TermQuery) queryNode()           {}
func (*TermSetQuery) queryNode()        {}
