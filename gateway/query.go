package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Op identifies the terminal operation of a built query.
type Op int

const (
	OpSelect Op = iota
	OpInsert
	OpUpdate
	OpDelete
)

// Executor performs a built query against the backend. Client implements
// it over HTTP; tests substitute fakes.
type Executor interface {
	Execute(ctx context.Context, op Op, q *Query, body any, dest any) error
}

// Store is the table-oriented surface of the hosted backend: one handle,
// table-scoped operations.
type Store interface {
	From(table string) *Query
}

// Filter is one predicate applied to a column.
type Filter struct {
	Column string
	Op     string // eq, ilike, in, cs
	Value  string
}

// Query accumulates predicates for a single table operation. Builder
// methods return the receiver for chaining; terminal methods hand the
// query to the Executor.
type Query struct {
	exec     Executor
	table    string
	selects  string
	filters  []Filter
	ors      []string
	order    string
	limit    int
	single   bool
}

// NewQuery builds a query bound to the given executor. Store
// implementations call this from From.
func NewQuery(exec Executor, table string) *Query {
	return &Query{exec: exec, table: table}
}

// Select names the returned columns. Joined rows are expressed as nested
// field selections, e.g. "*, category:categories(*)".
func (q *Query) Select(columns string) *Query {
	q.selects = columns
	return q
}

// Eq adds an equality predicate.
func (q *Query) Eq(column string, value any) *Query {
	q.filters = append(q.filters, Filter{Column: column, Op: "eq", Value: fmt.Sprint(value)})
	return q
}

// Ilike adds a case-insensitive pattern predicate. The pattern uses "*"
// as the wildcard.
func (q *Query) Ilike(column, pattern string) *Query {
	q.filters = append(q.filters, Filter{Column: column, Op: "ilike", Value: pattern})
	return q
}

// In adds a set-membership predicate.
func (q *Query) In(column string, values ...string) *Query {
	q.filters = append(q.filters, Filter{Column: column, Op: "in", Value: "(" + strings.Join(values, ",") + ")"})
	return q
}

// Contains adds an array-containment predicate.
func (q *Query) Contains(column string, values ...string) *Query {
	q.filters = append(q.filters, Filter{Column: column, Op: "cs", Value: "{" + strings.Join(values, ",") + "}"})
	return q
}

// Or adds a disjunction of conditions built with IlikeCond, ContainsCond
// or EqCond.
func (q *Query) Or(conds ...string) *Query {
	q.ors = append(q.ors, strings.Join(conds, ","))
	return q
}

// IlikeCond builds a pattern condition for Or.
func IlikeCond(column, pattern string) string {
	return column + ".ilike." + pattern
}

// ContainsCond builds an array-containment condition for Or.
func ContainsCond(column string, values ...string) string {
	return column + ".cs.{" + strings.Join(values, ",") + "}"
}

// EqCond builds an equality condition for Or.
func EqCond(column string, value any) string {
	return column + ".eq." + fmt.Sprint(value)
}

// Order sorts the result by a column. Pass ascending=false for
// newest-first reads.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	q.order = column + "." + dir
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Single marks the query as expecting exactly one row; dest must then be
// a struct pointer and a missing row yields ErrNotFound.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Get issues the read and decodes rows into dest.
func (q *Query) Get(ctx context.Context, dest any) error {
	return q.exec.Execute(ctx, OpSelect, q, nil, dest)
}

// Insert creates row(s) from body and decodes the created representation
// into dest. Pass a nil dest to discard it.
func (q *Query) Insert(ctx context.Context, body any, dest any) error {
	return q.exec.Execute(ctx, OpInsert, q, body, dest)
}

// Update patches the rows matched by the accumulated filters and decodes
// the affected representation into dest.
func (q *Query) Update(ctx context.Context, patch any, dest any) error {
	return q.exec.Execute(ctx, OpUpdate, q, patch, dest)
}

// Delete removes the rows matched by the accumulated filters.
func (q *Query) Delete(ctx context.Context) error {
	return q.exec.Execute(ctx, OpDelete, q, nil, nil)
}

// Accessors used by the HTTP executor and by test fakes.

func (q *Query) Table() string      { return q.table }
func (q *Query) Selection() string  { return q.selects }
func (q *Query) Filters() []Filter  { return q.filters }
func (q *Query) OrGroups() []string { return q.ors }
func (q *Query) OrderBy() string    { return q.order }
func (q *Query) LimitN() int        { return q.limit }
func (q *Query) IsSingle() bool     { return q.single }

// params encodes the accumulated predicates as request query parameters.
func (q *Query) params() url.Values {
	v := url.Values{}
	if q.selects != "" {
		v.Set("select", q.selects)
	}
	for _, f := range q.filters {
		v.Add(f.Column, f.Op+"."+f.Value)
	}
	for _, or := range q.ors {
		v.Add("or", "("+or+")")
	}
	if q.order != "" {
		v.Set("order", q.order)
	}
	if q.limit > 0 {
		v.Set("limit", strconv.Itoa(q.limit))
	}
	return v
}
