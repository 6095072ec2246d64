package bolt

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.pilab.hu/idstore/docstore"
)

// compiled is a predicate whose operands are already bson-encoded.
type compiled struct {
	path   []string
	op     docstore.Operator
	values []bson.RawValue
}

type matcher []compiled

func newMatcher(preds []docstore.Predicate) (matcher, error) {
	m := make(matcher, 0, len(preds))
	for _, p := range preds {
		operands := p.Values
		if p.Op != docstore.OpIn && p.Op != docstore.OpArrayContainsAny {
			operands = []any{p.Value}
		}

		c := compiled{path: strings.Split(p.Field, "."), op: p.Op}
		for _, v := range operands {
			rv, err := toRawValue(v)
			if err != nil {
				return nil, fmt.Errorf("predicate %s %s: %w", p.Field, p.Op, err)
			}
			c.values = append(c.values, rv)
		}
		m = append(m, c)
	}
	return m, nil
}

func toRawValue(v any) (bson.RawValue, error) {
	t, data, err := bson.MarshalValue(v)
	if err != nil {
		return bson.RawValue{}, err
	}
	return bson.RawValue{Type: t, Value: data}, nil
}

func (m matcher) match(doc bson.Raw) (bool, error) {
	for _, c := range m {
		field, err := doc.LookupErr(c.path...)
		if err != nil {
			// missing fields never match
			return false, nil
		}

		ok, err := c.eval(field)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (c compiled) eval(field bson.RawValue) (bool, error) {
	switch c.op {
	case docstore.OpEq, docstore.OpIn:
		return equalsAny(field, c.values), nil
	case docstore.OpArrayContains, docstore.OpArrayContainsAny:
		if field.Type != bson.TypeArray {
			return false, nil
		}
		elems, err := field.Array().Values()
		if err != nil {
			return false, err
		}
		for _, e := range elems {
			if equalsAny(e, c.values) {
				return true, nil
			}
		}
		return false, nil
	case docstore.OpLessThan:
		order, ok := compare(field, c.values[0])
		return ok && order < 0, nil
	}
	return false, fmt.Errorf("unsupported operator %s", c.op)
}

func equalsAny(v bson.RawValue, candidates []bson.RawValue) bool {
	for _, c := range candidates {
		if order, ok := compare(v, c); ok && order == 0 {
			return true
		}
	}
	return false
}

// compare orders two values of comparable bson types. Numbers compare
// across int32, int64 and double.
func compare(a, b bson.RawValue) (int, bool) {
	if isNumber(a.Type) && isNumber(b.Type) {
		if a.Type != bson.TypeDouble && b.Type != bson.TypeDouble {
			return cmp.Compare(asInt(a), asInt(b)), true
		}
		return cmp.Compare(asFloat(a), asFloat(b)), true
	}
	if a.Type != b.Type {
		return 0, false
	}

	switch a.Type {
	case bson.TypeString:
		return strings.Compare(a.StringValue(), b.StringValue()), true
	case bson.TypeDateTime:
		return cmp.Compare(a.DateTime(), b.DateTime()), true
	case bson.TypeBoolean:
		return cmp.Compare(boolRank(a.Boolean()), boolRank(b.Boolean())), true
	case bson.TypeNull:
		return 0, true
	}

	if bytes.Equal(a.Value, b.Value) {
		return 0, true
	}
	return 0, false
}

func isNumber(t bson.Type) bool {
	return t == bson.TypeInt32 || t == bson.TypeInt64 || t == bson.TypeDouble
}

func asInt(v bson.RawValue) int64 {
	if v.Type == bson.TypeInt32 {
		return int64(v.Int32())
	}
	return v.Int64()
}

func asFloat(v bson.RawValue) float64 {
	switch v.Type {
	case bson.TypeInt32:
		return float64(v.Int32())
	case bson.TypeInt64:
		return float64(v.Int64())
	}
	return v.Double()
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
