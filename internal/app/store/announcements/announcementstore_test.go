package announcementstore_test

import (
	"context"
	"testing"

	announcementstore "github.com/dalemusser/bulletin/internal/app/store/announcements"
	"github.com/dalemusser/bulletin/internal/app/system/docfilter"
	"github.com/dalemusser/bulletin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// collection is the method set shared by Store and MemStore.
type collection interface {
	Find(ctx context.Context, p docfilter.Predicate) ([]bson.M, error)
	FindOne(ctx context.Context, id string) (bson.M, error)
	Insert(ctx context.Context, doc bson.D) (string, error)
	UpdateOne(ctx context.Context, id string, set bson.D) (int64, error)
	DeleteOne(ctx context.Context, id string) (int64, error)
	Ping(ctx context.Context) error
}

func backends(t *testing.T) map[string]func(t *testing.T) collection {
	return map[string]func(t *testing.T) collection{
		"memory": func(t *testing.T) collection { return announcementstore.NewMemStore() },
		"mongo": func(t *testing.T) collection {
			return announcementstore.New(testutil.SetupTestDB(t))
		},
	}
}

func TestInsertAndFindOne(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := open(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			id, err := c.Insert(ctx, bson.D{{Key: "title", Value: "hello"}})
			require.NoError(t, err)
			_, err = primitive.ObjectIDFromHex(id)
			assert.NoError(t, err, "generated ids are ObjectID hex")

			doc, err := c.FindOne(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "hello", doc["title"])

			_, err = c.FindOne(ctx, primitive.NewObjectID().Hex())
			assert.ErrorIs(t, err, announcementstore.ErrNotFound)
			_, err = c.FindOne(ctx, "not-hex")
			assert.ErrorIs(t, err, announcementstore.ErrNotFound)
		})
	}
}

func TestStringIDsMatch(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := open(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			id, err := c.Insert(ctx, bson.D{{Key: "_id", Value: "legacy-1"}, {Key: "title", Value: "old"}})
			require.NoError(t, err)
			assert.Equal(t, "legacy-1", id)

			n, err := c.UpdateOne(ctx, "legacy-1", bson.D{{Key: "title", Value: "new"}})
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)

			doc, err := c.FindOne(ctx, "legacy-1")
			require.NoError(t, err)
			assert.Equal(t, "new", doc["title"])
		})
	}
}

func TestFindFilters(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := open(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			a, err := c.Insert(ctx, bson.D{{Key: "expiration", Value: "2030-01-01T00:00:00.000Z"}})
			require.NoError(t, err)
			_, err = c.Insert(ctx, bson.D{{Key: "expiration", Value: "2020-01-01T00:00:00.000Z"}})
			require.NoError(t, err)
			b, err := c.Insert(ctx, bson.D{
				{Key: "expiration", Value: "2030-01-01T00:00:00.000Z"},
				{Key: "start", Value: "2024-01-01T00:00:00.000Z"},
			})
			require.NoError(t, err)
			_, err = c.Insert(ctx, bson.D{
				{Key: "expiration", Value: "2030-01-01T00:00:00.000Z"},
				{Key: "start", Value: "2026-01-01T00:00:00.000Z"},
			})
			require.NoError(t, err)

			now := "2025-01-01T00:00:00.000Z"
			docs, err := c.Find(ctx, docfilter.And(
				docfilter.Gte("expiration", now),
				docfilter.Or(docfilter.Exists("start", false), docfilter.Lte("start", now)),
			))
			require.NoError(t, err)

			var got []string
			for _, d := range docs {
				got = append(got, d["_id"].(primitive.ObjectID).Hex())
			}
			assert.ElementsMatch(t, []string{a, b}, got)
		})
	}
}

func TestUpdateAndDeleteCounts(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := open(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			id, err := c.Insert(ctx, bson.D{{Key: "title", Value: "t"}})
			require.NoError(t, err)

			// Setting an identical value still counts as a match.
			n, err := c.UpdateOne(ctx, id, bson.D{{Key: "title", Value: "t"}})
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)

			n, err = c.UpdateOne(ctx, primitive.NewObjectID().Hex(), bson.D{{Key: "title", Value: "x"}})
			require.NoError(t, err)
			assert.EqualValues(t, 0, n)

			n, err = c.DeleteOne(ctx, id)
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)

			n, err = c.DeleteOne(ctx, id)
			require.NoError(t, err)
			assert.EqualValues(t, 0, n)
		})
	}
}

func TestPing(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := open(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()
			assert.NoError(t, c.Ping(ctx))
		})
	}
}
