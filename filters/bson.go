package filters

import "go.mongodb.org/mongo-driver/bson"

// ToBSON lowers p to a MongoDB query document.
func (p Predicate) ToBSON() bson.D {
	switch p.Op {
	case OpAnd:
		switch len(p.Children) {
		case 0:
			return bson.D{}
		case 1:
			return p.Children[0].ToBSON()
		}
		return bson.D{{Key: "$and", Value: children(p.Children)}}
	case OpOr:
		return bson.D{{Key: "$or", Value: children(p.Children)}}
	case OpEq:
		return bson.D{{Key: p.Field, Value: p.Value}}
	case OpNe:
		return bson.D{{Key: p.Field, Value: bson.D{{Key: "$ne", Value: p.Value}}}}
	case OpGt:
		return bson.D{{Key: p.Field, Value: bson.D{{Key: "$gt", Value: p.Value}}}}
	case OpGte:
		return bson.D{{Key: p.Field, Value: bson.D{{Key: "$gte", Value: p.Value}}}}
	case OpLte:
		return bson.D{{Key: p.Field, Value: bson.D{{Key: "$lte", Value: p.Value}}}}
	case OpIn:
		return bson.D{{Key: p.Field, Value: bson.D{{Key: "$in", Value: bson.A(p.Values)}}}}
	}
	return bson.D{}
}

func children(ps []Predicate) bson.A {
	out := make(bson.A, 0, len(ps))
	for _, c := range ps {
		out = append(out, c.ToBSON())
	}
	return out
}
