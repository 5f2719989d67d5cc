// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"strings"

	"github.com/lcp202406/paradedb/index"
)

// describeQuery renders a compiled plan as a one-line summary, for
// humans inspecting dry-run output.
func describeQuery(q index.Query) string {
	switch t := q.(type) {
	case *index.AllQuery:
		return "all"
	case *index.EmptyQuery:
		return "empty"
	case *index.BooleanQuery:
		parts := make([]string, len(t.Clauses))
		for i, c := range t.Clauses {
			parts[i] = fmt.Sprintf("%s(%s)", c.Occur, describeQuery(c.Query))
		}
		return "boolean{" + strings.Join(parts, ", ") + "}"
	case *index.BoostQuery:
		return fmt.Sprintf("boost(%s, %g)", describeQuery(t.Query), t.Boost)
	case *index.ConstScoreQuery:
		return fmt.Sprintf("const_score(%s, %g)", describeQuery(t.Query), t.Score)
	case *index.DisjunctionMaxQuery:
		parts := make([]string, len(t.Disjuncts))
		for i, d := range t.Disjuncts {
			parts[i] = describeQuery(d)
		}
		return fmt.Sprintf("dismax{%s, tie=%g}", strings.Join(parts, ", "), t.TieBreaker)
	case *index.FastFieldRangeQuery:
		return fmt.Sprintf("fast_range(%s)", t.Field)
	case *index.FuzzyTermQuery:
		mode := "term"
		if t.Prefix {
			mode = "prefix"
		}
		return fmt.Sprintf("fuzzy_%s(field=%d, %q, d=%d)", mode, t.Term.Field(), t.Term.Text(), t.Distance)
	case *index.MoreLikeThisQuery:
		return fmt.Sprintf("more_like_this(%d fields)", len(t.DocumentFields))
	case *index.PhraseQuery:
		return fmt.Sprintf("phrase(%d terms, slop=%d)", len(t.Terms), t.Slop)
	case *index.PhrasePrefixQuery:
		return fmt.Sprintf("phrase_prefix(%d terms, max_expansions=%d)", len(t.Terms), t.MaxExpansions)
	case *index.RangeQuery:
		return fmt.Sprintf("range(%s: %s)", t.Field, t.ValueType)
	case *index.RegexQuery:
		return fmt.Sprintf("regex(field=%d, %q)", t.Field, t.Pattern)
	case *index.TermQuery:
		return fmt.Sprintf("term(field=%d, type=%s)", t.Term.Field(), t.Term.Type())
	case *index.TermSetQuery:
		return fmt.Sprintf("term_set(%d terms)", len(t.Terms))
	default:
		return fmt.Sprintf("%T", q)
	}
}
