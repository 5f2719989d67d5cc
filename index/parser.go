// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package index

import (
	"strconv"
	"strings"
	"time"

	"github.com/lcp202406/paradedb/errors"
)

const ErrParseSyntax errors.Code = "ErrParseSyntax"

// QueryParser turns a free-text query string into an executable query.
// Implementations are not safe for concurrent use; callers hold one
// parser per goroutine.
type QueryParser interface {
	ParseQuery(query string) (Query, error)
}

// Parser is the engine's free-text query parser. It understands
// whitespace-separated clauses of the form `field:term` or a bare term
// searched across the default fields, joined by capitalized AND/OR.
type Parser struct {
	schema        *Schema
	defaultFields []FieldID
	byName        map[string]TypedField

	// Scratch state reused across calls; this is what makes a Parser
	// unsafe to share between goroutines.
	clauses []Query
	negated []bool
}

var _ QueryParser = (*Parser)(nil)

func NewParser(schema *Schema, defaultFields []FieldID) *Parser {
	byName := make(map[string]TypedField, schema.NumFields())
	for id := 0; id < schema.NumFields(); id++ {
		entry, _ := schema.FieldEntry(FieldID(id))
		byName[entry.Name] = TypedField{Type: entry.Type, Field: FieldID(id)}
	}
	return &Parser{
		schema:        schema,
		defaultFields: defaultFields,
		byName:        byName,
	}
}

// ParseQuery parses a query string. Clauses default to OR semantics;
// an AND token joins its neighbors with must semantics, and a NOT
// token excludes the clause that follows it.
func (p *Parser) ParseQuery(query string) (Query, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil, errors.New(ErrParseSyntax, "empty query string")
	}

	p.clauses = p.clauses[:0]
	p.negated = p.negated[:0]
	conjunctive := false
	negateNext := false
	for _, tok := range tokens {
		switch tok {
		case "AND":
			conjunctive = true
			continue
		case "OR":
			continue
		case "NOT":
			negateNext = true
			continue
		}
		clause, err := p.parseClause(tok)
		if err != nil {
			return nil, err
		}
		p.clauses = append(p.clauses, clause)
		p.negated = append(p.negated, negateNext)
		negateNext = false
	}
	if negateNext {
		return nil, errors.New(ErrParseSyntax, "NOT must be followed by a clause")
	}
	if len(p.clauses) == 0 {
		return nil, errors.New(ErrParseSyntax, "query string has no terms")
	}
	if len(p.clauses) == 1 && !p.negated[0] {
		return p.clauses[0], nil
	}

	occur := OccurShould
	if conjunctive {
		occur = OccurMust
	}
	clauses := make([]BooleanClause, len(p.clauses))
	for i, q := range p.clauses {
		clauses[i] = BooleanClause{Occur: occur, Query: q}
		if p.negated[i] {
			clauses[i].Occur = OccurMustNot
		}
	}
	return NewBooleanQuery(clauses), nil
}

func (p *Parser) parseClause(tok string) (Query, error) {
	if name, raw, ok := strings.Cut(tok, ":"); ok {
		tf, found := p.byName[name]
		if !found {
			return nil, errors.New(ErrParseSyntax, "unknown field in query string: "+name)
		}
		term, err := p.termFromText(tf, raw)
		if err != nil {
			return nil, err
		}
		return NewTermQuery(term, IndexRecordWithFreqsAndPositions), nil
	}

	// Bare term: search the default fields.
	var terms []Term
	for _, id := range p.defaultFields {
		entry, ok := p.schema.FieldEntry(id)
		if !ok {
			continue
		}
		term, err := p.termFromText(TypedField{Type: entry.Type, Field: id}, tok)
		if err != nil {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return nil, errors.New(ErrParseSyntax, "no default field accepts term: "+tok)
	}
	return NewTermSetQuery(terms), nil
}

func (p *Parser) termFromText(tf TypedField, raw string) (Term, error) {
	switch tf.Type {
	case FieldTypeStr:
		return TermFromFieldText(tf.Field, raw), nil
	case FieldTypeU64:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Term{}, errors.New(ErrParseSyntax, "expected unsigned integer, got: "+raw)
		}
		return TermFromFieldU64(tf.Field, v), nil
	case FieldTypeI64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Term{}, errors.New(ErrParseSyntax, "expected integer, got: "+raw)
		}
		return TermFromFieldI64(tf.Field, v), nil
	case FieldTypeF64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Term{}, errors.New(ErrParseSyntax, "expected float, got: "+raw)
		}
		return TermFromFieldF64(tf.Field, v), nil
	case FieldTypeBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Term{}, errors.New(ErrParseSyntax, "expected boolean, got: "+raw)
		}
		return TermFromFieldBool(tf.Field, v), nil
	case FieldTypeDate:
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Term{}, errors.New(ErrParseSyntax, "expected RFC3339 timestamp, got: "+raw)
		}
		return TermFromFieldDate(tf.Field, t), nil
	default:
		return Term{}, errors.New(ErrParseSyntax, "field type "+tf.Type.String()+" is not searchable from a query string")
	}
}
