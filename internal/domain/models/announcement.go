// internal/domain/models/announcement.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimestampLayout is the ISO-8601 UTC layout used for announcement windows.
// Stored timestamps are compared as strings, so every value written by the
// service uses this layout.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Announcement field names as stored in the announcements collection.
const (
	FieldID         = "_id"
	FieldTitle      = "title"
	FieldMessage    = "message"
	FieldExpiration = "expiration"
	FieldStart      = "start"
)

// MutableFields is the fixed set of keys an update may touch.
// Any other key in an update body is dropped before validation.
var MutableFields = []string{FieldTitle, FieldMessage, FieldExpiration, FieldStart}

// Announcement is the external shape of a stored announcement.
//
// Title, Message, Expiration and Start carry the stored value unchanged, so
// a number or an object written at create time comes back as the same JSON.
// Missing fields read as "" except Start, which is nil (JSON null) when the
// record has no start or a null one.
type Announcement struct {
	ID         string `json:"id"`
	Title      any    `json:"title"`
	Message    any    `json:"message"`
	Expiration any    `json:"expiration"`
	Start      any    `json:"start"`
}

// FormatTimestamp renders t in TimestampLayout.
//
// Window checks compare this string against stored values byte by byte. A
// stored value without fractional seconds, such as "2030-01-01T00:00:00Z",
// sorts after every millisecond of its own second ('Z' > '.'), so such an
// expiration stays active until the next whole second and such a start only
// takes effect then.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// AnnouncementFromDocument maps a raw stored document to its external shape.
// It never fails.
func AnnouncementFromDocument(doc bson.M) Announcement {
	return Announcement{
		ID:         IDString(doc[FieldID]),
		Title:      storedValue(doc, FieldTitle, ""),
		Message:    storedValue(doc, FieldMessage, ""),
		Expiration: storedValue(doc, FieldExpiration, ""),
		Start:      storedValue(doc, FieldStart, nil),
	}
}

// AnnouncementsFromDocuments maps every document in order. The result is
// never nil so it encodes as an empty JSON array.
func AnnouncementsFromDocuments(docs []bson.M) []Announcement {
	out := make([]Announcement, 0, len(docs))
	for _, d := range docs {
		out = append(out, AnnouncementFromDocument(d))
	}
	return out
}

// IDString returns the string form of a stored identifier, or "" if absent.
func IDString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func storedValue(doc bson.M, key string, missing any) any {
	v, ok := doc[key]
	if !ok {
		return missing
	}
	return plain(v)
}

// plain turns ordered BSON documents and arrays into maps and slices so
// they encode as JSON objects and arrays. Other values pass through.
func plain(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}
