package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Predicate is a single filter condition on a list query.
type Predicate struct {
	Column string
	Op     string
	Value  interface{}
}

// Filter accumulates predicates for a list query and renders them onto a
// gorm query in one pass, keeping clause composition separate from handler
// control flow. Predicates added with Where are ANDed; predicates added
// together with WhereAny form a single OR group.
type Filter struct {
	groups [][]Predicate
}

// NewFilter creates an empty filter
func NewFilter() *Filter {
	return &Filter{}
}

// Where adds a single ANDed predicate
func (f *Filter) Where(column, op string, value interface{}) *Filter {
	f.groups = append(f.groups, []Predicate{{Column: column, Op: op, Value: value}})
	return f
}

// WhereAny adds a group of predicates joined by OR
func (f *Filter) WhereAny(preds ...Predicate) *Filter {
	if len(preds) > 0 {
		f.groups = append(f.groups, preds)
	}
	return f
}

// Apply renders all predicates onto the query
func (f *Filter) Apply(q *gorm.DB) *gorm.DB {
	for _, group := range f.groups {
		exprs := make([]string, 0, len(group))
		args := make([]interface{}, 0, len(group))
		for _, p := range group {
			exprs = append(exprs, fmt.Sprintf("%s %s ?", p.Column, p.Op))
			args = append(args, p.Value)
		}
		q = q.Where("("+strings.Join(exprs, " OR ")+")", args...)
	}
	return q
}

// Empty reports whether the filter has no predicates
func (f *Filter) Empty() bool {
	return len(f.groups) == 0
}
