// internal/app/features/announcements/service.go
package announcements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	announcementstore "github.com/dalemusser/bulletin/internal/app/store/announcements"
	"github.com/dalemusser/bulletin/internal/app/system/auth"
	"github.com/dalemusser/bulletin/internal/app/system/docfilter"
	"github.com/dalemusser/bulletin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Collection is the storage the service needs. Both the MongoDB store and
// the in-memory store satisfy it.
type Collection interface {
	Find(ctx context.Context, p docfilter.Predicate) ([]bson.M, error)
	FindOne(ctx context.Context, id string) (bson.M, error)
	Insert(ctx context.Context, doc bson.D) (string, error)
	UpdateOne(ctx context.Context, id string, set bson.D) (int64, error)
	DeleteOne(ctx context.Context, id string) (int64, error)
}

// Service implements the announcement operations. It holds no mutable state
// of its own and is safe for concurrent use.
type Service struct {
	coll     Collection
	now      func() time.Time
	sanitize func(string) string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSanitizer filters string titles and messages before they are stored.
func WithSanitizer(fn func(string) string) Option {
	return func(s *Service) { s.sanitize = fn }
}

func NewService(coll Collection, opts ...Option) *Service {
	s := &Service{coll: coll, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActiveFilter selects announcements whose window contains now:
// expiration >= now AND (start absent OR start <= now).
func ActiveFilter(now string) docfilter.Predicate {
	return docfilter.And(
		docfilter.Gte(models.FieldExpiration, now),
		docfilter.Or(
			docfilter.Exists(models.FieldStart, false),
			docfilter.Lte(models.FieldStart, now),
		),
	)
}

// ListActive returns every announcement active at the time of the call, in
// storage order.
func (s *Service) ListActive(ctx context.Context) ([]models.Announcement, error) {
	now := models.FormatTimestamp(s.now())
	docs, err := s.coll.Find(ctx, ActiveFilter(now))
	if err != nil {
		return nil, fmt.Errorf("list active announcements: %w", err)
	}
	return models.AnnouncementsFromDocuments(docs), nil
}

// Get returns one announcement regardless of its window.
func (s *Service) Get(ctx context.Context, id string) (models.Announcement, error) {
	doc, err := s.coll.FindOne(ctx, id)
	if errors.Is(err, announcementstore.ErrNotFound) {
		return models.Announcement{}, ErrNotFound
	}
	if err != nil {
		return models.Announcement{}, fmt.Errorf("get announcement: %w", err)
	}
	return models.AnnouncementFromDocument(doc), nil
}

// Create stores a new announcement and returns its id. title, message and
// expiration must be present and non-empty; start is kept only when it is
// non-empty. Values are stored as given, without format checks.
func (s *Service) Create(ctx context.Context, caller *auth.Caller, input map[string]any) (string, error) {
	if caller == nil {
		return "", ErrUnauthenticated
	}
	if !truthy(input[models.FieldTitle]) || !truthy(input[models.FieldMessage]) || !truthy(input[models.FieldExpiration]) {
		return "", &ValidationError{Msg: msgCreateRequired}
	}

	doc := bson.D{
		{Key: models.FieldTitle, Value: s.clean(models.FieldTitle, input[models.FieldTitle])},
		{Key: models.FieldMessage, Value: s.clean(models.FieldMessage, input[models.FieldMessage])},
		{Key: models.FieldExpiration, Value: input[models.FieldExpiration]},
	}
	if start := input[models.FieldStart]; truthy(start) {
		doc = append(doc, bson.E{Key: models.FieldStart, Value: start})
	}

	id, err := s.coll.Insert(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("create announcement: %w", err)
	}
	return id, nil
}

// Update sets the recognised fields present in input on the announcement
// matching id. Unrecognised keys are dropped; if nothing remains the update
// is rejected before storage is touched. A zero matched count is reported
// as ErrNotFound.
func (s *Service) Update(ctx context.Context, caller *auth.Caller, id string, input map[string]any) error {
	if caller == nil {
		return ErrUnauthenticated
	}

	var set bson.D
	for _, k := range models.MutableFields {
		if v, ok := input[k]; ok {
			set = append(set, bson.E{Key: k, Value: s.clean(k, v)})
		}
	}
	if len(set) == 0 {
		return &ValidationError{Msg: msgNoUpdateFields}
	}

	matched, err := s.coll.UpdateOne(ctx, id, set)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the announcement matching id.
func (s *Service) Delete(ctx context.Context, caller *auth.Caller, id string) error {
	if caller == nil {
		return ErrUnauthenticated
	}

	deleted, err := s.coll.DeleteOne(ctx, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) clean(field string, v any) any {
	if s.sanitize == nil || (field != models.FieldTitle && field != models.FieldMessage) {
		return v
	}
	if str, ok := v.(string); ok {
		return s.sanitize(str)
	}
	return v
}

// truthy reports whether a decoded JSON value counts as provided: null,
// false, zero, "" and empty arrays or objects do not.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t != ""
		}
		return f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
