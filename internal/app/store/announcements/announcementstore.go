// internal/app/store/announcements/announcementstore.go
package announcementstore

import (
	"context"
	"errors"

	"github.com/dalemusser/bulletin/internal/app/system/docfilter"
	"github.com/dalemusser/bulletin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// CollectionName is the MongoDB collection holding announcements.
const CollectionName = "announcements"

// ErrNotFound is returned by FindOne when no document matches the id.
var ErrNotFound = errors.New("announcement not found")

// Store is the MongoDB-backed announcements collection.
//
// Documents are handled as raw bson so that records written by other tools,
// with missing or oddly typed fields, still round-trip.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Find returns every document matching p in natural order.
func (s *Store) Find(ctx context.Context, p docfilter.Predicate) ([]bson.M, error) {
	cur, err := s.c.Find(ctx, p.BSON())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []bson.M
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne returns the document whose _id matches id.
func (s *Store) FindOne(ctx context.Context, id string) (bson.M, error) {
	var doc bson.M
	err := s.c.FindOne(ctx, idFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Insert stores doc and returns the identifier MongoDB assigned to it.
func (s *Store) Insert(ctx context.Context, doc bson.D) (string, error) {
	res, err := s.c.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return models.IDString(res.InsertedID), nil
}

// UpdateOne applies set with $set to the document matching id and returns
// the matched count.
func (s *Store) UpdateOne(ctx context.Context, id string, set bson.D) (int64, error) {
	res, err := s.c.UpdateOne(ctx, idFilter(id), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteOne removes the document matching id. Returns the number of
// documents deleted (0 or 1).
func (s *Store) DeleteOne(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Ping checks connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.c.Database().Client().Ping(ctx, readpref.Primary())
}

// idFilter matches either the ObjectID spelled by id or the raw string, so a
// malformed id simply matches nothing.
func idFilter(id string) bson.M {
	candidates := bson.A{id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		candidates = bson.A{oid, id}
	}
	return bson.M{"_id": bson.M{"$in": candidates}}
}
