// Package docfilter builds small document predicates that can be translated
// to MongoDB query documents or evaluated directly against a decoded document.
//
// Only the operators the service needs are supported: conjunction,
// disjunction, string comparisons ($gte, $lte) and field existence.
// Evaluation follows MongoDB semantics for these operators: a comparison is
// false when the field is missing or holds a non-string value, and a field
// holding null still exists.
package docfilter

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Predicate is a node in a filter tree.
type Predicate interface {
	// BSON renders the predicate as a MongoDB query document.
	BSON() bson.D
	// Match reports whether doc satisfies the predicate.
	Match(doc bson.M) bool
}

type and []Predicate

// And matches when every child matches. An empty And matches everything and
// renders as an empty query document, since MongoDB rejects an empty $and.
func And(ps ...Predicate) Predicate { return and(ps) }

func (a and) BSON() bson.D {
	if len(a) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "$and", Value: children(a)}}
}

func (a and) Match(doc bson.M) bool {
	for _, p := range a {
		if !p.Match(doc) {
			return false
		}
	}
	return true
}

type or []Predicate

// Or matches when at least one child matches. An empty Or matches nothing.
func Or(ps ...Predicate) Predicate { return or(ps) }

func (o or) BSON() bson.D {
	return bson.D{{Key: "$or", Value: children(o)}}
}

func (o or) Match(doc bson.M) bool {
	for _, p := range o {
		if p.Match(doc) {
			return true
		}
	}
	return false
}

type compare struct {
	field string
	op    string
	value string
}

// Gte matches documents whose field is a string >= value.
func Gte(field, value string) Predicate { return compare{field: field, op: "$gte", value: value} }

// Lte matches documents whose field is a string <= value.
func Lte(field, value string) Predicate { return compare{field: field, op: "$lte", value: value} }

func (c compare) BSON() bson.D {
	return bson.D{{Key: c.field, Value: bson.D{{Key: c.op, Value: c.value}}}}
}

func (c compare) Match(doc bson.M) bool {
	v, ok := doc[c.field].(string)
	if !ok {
		return false
	}
	switch c.op {
	case "$gte":
		return v >= c.value
	case "$lte":
		return v <= c.value
	}
	return false
}

type exists struct {
	field string
	want  bool
}

// Exists matches documents where the presence of field equals want.
func Exists(field string, want bool) Predicate { return exists{field: field, want: want} }

func (e exists) BSON() bson.D {
	return bson.D{{Key: e.field, Value: bson.D{{Key: "$exists", Value: e.want}}}}
}

func (e exists) Match(doc bson.M) bool {
	_, ok := doc[e.field]
	return ok == e.want
}

func children(ps []Predicate) bson.A {
	out := make(bson.A, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.BSON())
	}
	return out
}
