package docstore

import "fmt"

// Operator is a predicate comparison.
type Operator int

const (
	OpEq Operator = iota
	OpArrayContains
	OpArrayContainsAny
	OpIn
	OpLessThan
)

func (o Operator) String() string {
	switch o {
	case OpEq:
		return "=="
	case OpArrayContains:
		return "array-contains"
	case OpArrayContainsAny:
		return "array-contains-any"
	case OpIn:
		return "in"
	case OpLessThan:
		return "<"
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Predicate is one condition of a query. Value is used by single-valued
// operators, Values by In and ArrayContainsAny.
type Predicate struct {
	Field  string
	Op     Operator
	Value  any
	Values []any
}

// Eq matches documents whose field equals v.
func Eq(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: v}
}

// ArrayContains matches documents whose array field has an element equal to v.
func ArrayContains(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpArrayContains, Value: v}
}

// ArrayContainsAny matches documents whose array field shares an element with values.
func ArrayContainsAny(field string, values ...any) Predicate {
	return Predicate{Field: field, Op: OpArrayContainsAny, Values: values}
}

// In matches documents whose field equals one of values.
func In(field string, values ...any) Predicate {
	return Predicate{Field: field, Op: OpIn, Values: values}
}

// LessThan matches documents whose field is strictly less than v.
// Documents missing the field never match.
func LessThan(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpLessThan, Value: v}
}

// Query is a conjunction of predicates. A zero Limit means no limit.
type Query struct {
	Where []Predicate
	Limit int
}

// Validate checks the value ceilings. Backends call it before any I/O.
func (q Query) Validate() error {
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	for _, p := range q.Where {
		if p.Field == "" {
			return fmt.Errorf("%w: empty field", ErrInvalidQuery)
		}
		switch p.Op {
		case OpIn, OpArrayContainsAny:
			if len(p.Values) > MaxFilterValues {
				return fmt.Errorf("%s %s with %d values: %w", p.Field, p.Op, len(p.Values), ErrTooManyFilterValues)
			}
		case OpEq, OpArrayContains, OpLessThan:
		default:
			return fmt.Errorf("%w: unknown operator %s", ErrInvalidQuery, p.Op)
		}
	}
	return nil
}

// Strings converts string values for use with In and ArrayContainsAny.
func Strings(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Partition deduplicates values, keeping first occurrences, and splits them
// into chunks of at most size.
func Partition(values []string, size int) [][]string {
	if size <= 0 {
		size = MaxFilterValues
	}

	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	var chunks [][]string
	for len(unique) > 0 {
		n := min(size, len(unique))
		chunks = append(chunks, unique[:n:n])
		unique = unique[n:]
	}
	return chunks
}
