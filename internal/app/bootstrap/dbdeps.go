// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/bulletin/internal/app/features/announcements"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnnouncementStore is what the app needs from a store backend: the
// service's collection plus a health ping.
type AnnouncementStore interface {
	announcements.Collection
	Ping(ctx context.Context) error
}

// DBDeps holds database/back-end dependencies for the app. The Mongo
// fields are nil when the memory backend is selected.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Announcements AnnouncementStore
}
