package docfilter_test

import (
	"testing"

	"github.com/dalemusser/bulletin/internal/app/system/docfilter"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBSON_Shape(t *testing.T) {
	p := docfilter.And(
		docfilter.Gte("expiration", "now"),
		docfilter.Or(
			docfilter.Exists("start", false),
			docfilter.Lte("start", "now"),
		),
	)

	want := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "expiration", Value: bson.D{{Key: "$gte", Value: "now"}}}},
		bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "start", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "start", Value: bson.D{{Key: "$lte", Value: "now"}}}},
		}}},
	}}}

	assert.Equal(t, want, p.BSON())
}

func TestMatch_Comparisons(t *testing.T) {
	tests := []struct {
		name string
		p    docfilter.Predicate
		doc  bson.M
		want bool
	}{
		{"gte equal", docfilter.Gte("f", "b"), bson.M{"f": "b"}, true},
		{"gte greater", docfilter.Gte("f", "b"), bson.M{"f": "c"}, true},
		{"gte less", docfilter.Gte("f", "b"), bson.M{"f": "a"}, false},
		{"lte equal", docfilter.Lte("f", "b"), bson.M{"f": "b"}, true},
		{"lte greater", docfilter.Lte("f", "b"), bson.M{"f": "c"}, false},
		{"missing field", docfilter.Gte("f", "b"), bson.M{}, false},
		{"non-string field", docfilter.Gte("f", "b"), bson.M{"f": 5}, false},
		{"null field", docfilter.Lte("f", "b"), bson.M{"f": nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Match(tt.doc))
		})
	}
}

func TestMatch_Exists(t *testing.T) {
	assert.True(t, docfilter.Exists("f", true).Match(bson.M{"f": "x"}))
	assert.True(t, docfilter.Exists("f", true).Match(bson.M{"f": nil}))
	assert.False(t, docfilter.Exists("f", true).Match(bson.M{}))
	assert.True(t, docfilter.Exists("f", false).Match(bson.M{}))
	assert.False(t, docfilter.Exists("f", false).Match(bson.M{"f": nil}))
}

func TestMatch_Combinators(t *testing.T) {
	yes := docfilter.Exists("f", false)
	no := docfilter.Exists("f", true)
	doc := bson.M{}

	assert.True(t, docfilter.And().Match(doc))
	assert.Equal(t, bson.D{}, docfilter.And().BSON())
	assert.False(t, docfilter.Or().Match(doc))
	assert.True(t, docfilter.And(yes, yes).Match(doc))
	assert.False(t, docfilter.And(yes, no).Match(doc))
	assert.True(t, docfilter.Or(no, yes).Match(doc))
	assert.False(t, docfilter.Or(no, no).Match(doc))
}
