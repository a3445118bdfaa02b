package storage

import (
	"fmt"
	"strings"
)

// Op is a comparison operator usable in a Filter condition.
type Op string

const (
	OpEq   Op = "="
	OpLt   Op = "<"
	OpGte  Op = ">="
	OpLike Op = "LIKE"
)

type condition struct {
	column string
	op     Op
	value  interface{}
}

// Filter is a conjunction of column conditions applied to a query,
// update or delete. A nil or empty filter matches every row.
type Filter struct {
	conditions []condition
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Where appends a condition and returns the filter for chaining.
func (f *Filter) Where(column string, op Op, value interface{}) *Filter {
	f.conditions = append(f.conditions, condition{column: column, op: op, value: value})
	return f
}

// Empty reports whether the filter carries no conditions.
func (f *Filter) Empty() bool {
	return f == nil || len(f.conditions) == 0
}

// Columns returns the columns referenced by the filter, for validation
// against the target resource.
func (f *Filter) Columns() []string {
	if f == nil {
		return nil
	}
	cols := make([]string, 0, len(f.conditions))
	for _, c := range f.conditions {
		cols = append(cols, c.column)
	}
	return cols
}

// Clause renders the filter as a SQL WHERE body with placeholders and
// the matching argument list. It returns an empty clause for an empty
// filter.
func (f *Filter) Clause() (string, []interface{}) {
	if f.Empty() {
		return "", nil
	}

	parts := make([]string, 0, len(f.conditions))
	args := make([]interface{}, 0, len(f.conditions))
	for _, c := range f.conditions {
		parts = append(parts, c.column+" "+string(c.op)+" ?")
		args = append(args, c.value)
	}

	return strings.Join(parts, " AND "), args
}

// Match evaluates the filter against a single row, reading column values
// through get. It mirrors the SQL semantics closely enough for the
// memory-backed store: equality, integer ordering and LIKE patterns with
// percent wildcards. A column the row does not carry never matches.
func (f *Filter) Match(get func(column string) (interface{}, bool)) bool {
	if f.Empty() {
		return true
	}

	for _, c := range f.conditions {
		v, ok := get(c.column)
		if !ok {
			return false
		}

		switch c.op {
		case OpEq:
			if fmt.Sprintf("%v", v) != fmt.Sprintf("%v", c.value) {
				return false
			}
		case OpLt:
			a, aok := asInt64(v)
			b, bok := asInt64(c.value)
			if !aok || !bok || !(a < b) {
				return false
			}
		case OpGte:
			a, aok := asInt64(v)
			b, bok := asInt64(c.value)
			if !aok || !bok || !(a >= b) {
				return false
			}
		case OpLike:
			pattern, _ := c.value.(string)
			if !likeMatch(fmt.Sprintf("%v", v), pattern) {
				return false
			}
		default:
			return false
		}
	}

	return true
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// likeMatch supports percent wildcards anywhere in the pattern; the
// underscore wildcard is not used by any caller and matches literally.
func likeMatch(s, pattern string) bool {
	parts := strings.Split(pattern, "%")
	if len(parts) == 1 {
		return s == pattern
	}

	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]

	last := parts[len(parts)-1]
	middle := parts[1 : len(parts)-1]
	for _, part := range middle {
		if part == "" {
			continue
		}
		idx := strings.Index(s, part)
		if idx < 0 {
			return false
		}
		s = s[idx+len(part):]
	}

	return strings.HasSuffix(s, last)
}
