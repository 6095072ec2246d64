package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.pilab.hu/idstore/docstore"
)

// buildFilter translates predicates into a query document. Several
// predicates are joined with $and so repeated fields keep all conditions.
func buildFilter(preds []docstore.Predicate) (bson.D, error) {
	if len(preds) == 0 {
		return bson.D{}, nil
	}

	clauses := make(bson.A, 0, len(preds))
	for _, p := range preds {
		var clause bson.D
		switch p.Op {
		case docstore.OpEq:
			clause = bson.D{{Key: p.Field, Value: bson.D{{Key: "$eq", Value: p.Value}}}}
		case docstore.OpArrayContains:
			clause = bson.D{{Key: p.Field, Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$eq", Value: p.Value}}}}}}
		case docstore.OpArrayContainsAny:
			clause = bson.D{{Key: p.Field, Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$in", Value: bson.A(p.Values)}}}}}}
		case docstore.OpIn:
			clause = bson.D{{Key: p.Field, Value: bson.D{{Key: "$in", Value: bson.A(p.Values)}}}}
		case docstore.OpLessThan:
			clause = bson.D{{Key: p.Field, Value: bson.D{{Key: "$lt", Value: p.Value}}}}
		default:
			return nil, fmt.Errorf("%w: unsupported operator %s", docstore.ErrInvalidQuery, p.Op)
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) == 1 {
		return clauses[0].(bson.D), nil
	}
	return bson.D{{Key: "$and", Value: clauses}}, nil
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// toDocument encodes data and places _id first.
func toDocument(id string, data any) (bson.D, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, err
	}

	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	doc := make(bson.D, 0, len(fields)+1)
	doc = append(doc, bson.E{Key: "_id", Value: id})
	for _, f := range fields {
		if f.Key != "_id" {
			doc = append(doc, f)
		}
	}
	return doc, nil
}

// mergeUpdate builds the $set update for a Merge write.
func mergeUpdate(id string, data any) (bson.D, error) {
	doc, err := toDocument(id, data)
	if err != nil {
		return nil, err
	}
	if len(doc) == 1 {
		return bson.D{{Key: "$setOnInsert", Value: doc}}, nil
	}
	return bson.D{{Key: "$set", Value: doc[1:]}}, nil
}
