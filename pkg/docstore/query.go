package docstore

import (
	"fmt"
	"sort"
	"strings"

	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

// Op is a filter comparison operator.
type Op string

const (
	OpEq  Op = "=="
	OpGte Op = ">="
	OpLte Op = "<="
)

// Direction orders query results on the sort field.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Condition is one field filter. Conditions combine with AND only.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Query describes a filtered, ordered, limited read over a collection.
// The zero value matches everything. Builder methods return a copy, so
// queries can be shared and extended without aliasing.
type Query struct {
	conds   []Condition
	orderBy string
	dir     Direction
	limit   int
}

// NewQuery returns an empty query.
func NewQuery() Query {
	return Query{}
}

// Eq adds an equality filter on field.
func (q Query) Eq(field string, value any) Query {
	return q.where(Condition{Field: field, Op: OpEq, Value: value})
}

// Gte adds a lower-bound filter on field.
func (q Query) Gte(field string, value any) Query {
	return q.where(Condition{Field: field, Op: OpGte, Value: value})
}

// Lte adds an upper-bound filter on field.
func (q Query) Lte(field string, value any) Query {
	return q.where(Condition{Field: field, Op: OpLte, Value: value})
}

func (q Query) where(cond Condition) Query {
	conds := make([]Condition, len(q.conds), len(q.conds)+1)
	copy(conds, q.conds)
	q.conds = append(conds, cond)
	return q
}

// OrderBy sorts results on field in the given direction. Calling it
// again replaces the previous sort.
func (q Query) OrderBy(field string, dir Direction) Query {
	q.orderBy = field
	q.dir = dir
	return q
}

// Limit caps the number of results. Zero or negative means no cap.
func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

// Conditions returns a copy of the filters.
func (q Query) Conditions() []Condition {
	out := make([]Condition, len(q.conds))
	copy(out, q.conds)
	return out
}

// Sort returns the order field and direction, if any.
func (q Query) Sort() (string, Direction) {
	return q.orderBy, q.dir
}

// Cap returns the result limit, zero meaning unlimited.
func (q Query) Cap() int {
	return q.limit
}

// Validate rejects shapes the store cannot serve. A range filter on one
// field combined with ordering on a different field is unsupported,
// mirroring the single-index constraint of the backing stores.
func (q Query) Validate() error {
	for _, cond := range q.conds {
		if strings.TrimSpace(cond.Field) == "" {
			return pkgerrors.New(pkgerrors.CodeUnsupportedQuery, "filter field cannot be empty")
		}
		if cond.Op != OpEq && cond.Op != OpGte && cond.Op != OpLte {
			return pkgerrors.New(pkgerrors.CodeUnsupportedQuery, fmt.Sprintf("unknown operator %q", cond.Op))
		}
		if cond.Op != OpEq && q.orderBy != "" && q.orderBy != cond.Field {
			return pkgerrors.New(
				pkgerrors.CodeUnsupportedQuery,
				fmt.Sprintf("range filter on %q cannot combine with ordering on %q", cond.Field, q.orderBy),
			)
		}
	}
	if q.dir != "" && q.dir != Ascending && q.dir != Descending {
		return pkgerrors.New(pkgerrors.CodeUnsupportedQuery, fmt.Sprintf("unknown sort direction %q", q.dir))
	}
	return nil
}

// Apply evaluates the query over raw documents: validate, filter, sort,
// limit. Drivers delegate here so every backend shares one semantics.
func Apply(docs []Document, q Query) ([]Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	matched := make([]Document, 0, len(docs))
	for _, doc := range docs {
		ok, err := matches(doc, q.conds)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, doc)
		}
	}

	if q.orderBy != "" {
		field, dir := q.orderBy, q.dir
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareValues(matched[i].Body[field], matched[j].Body[field])
			if dir == Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.limit > 0 && len(matched) > q.limit {
		matched = matched[:q.limit]
	}
	return matched, nil
}

func matches(doc Document, conds []Condition) (bool, error) {
	for _, cond := range conds {
		value, ok := doc.Body[cond.Field]
		if !ok {
			return false, nil
		}
		cmp := compareValues(value, cond.Value)
		switch cond.Op {
		case OpEq:
			if cmp != 0 {
				return false, nil
			}
		case OpGte:
			if cmp < 0 {
				return false, nil
			}
		case OpLte:
			if cmp > 0 {
				return false, nil
			}
		default:
			return false, pkgerrors.New(pkgerrors.CodeUnsupportedQuery, fmt.Sprintf("unknown operator %q", cond.Op))
		}
	}
	return true, nil
}

// compareValues orders JSON scalar values. Numbers compare numerically,
// strings lexicographically (RFC 3339 timestamps order correctly this
// way), booleans false before true. Mismatched or non-scalar types fall
// back to their formatted representation.
func compareValues(a, b any) int {
	if na, aok := asFloat(a); aok {
		if nb, bok := asFloat(b); bok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			}
			return 0
		}
	}
	if sa, aok := a.(string); aok {
		if sb, bok := b.(string); bok {
			return strings.Compare(sa, sb)
		}
	}
	if ba, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case !ba && bb:
				return -1
			case ba && !bb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
