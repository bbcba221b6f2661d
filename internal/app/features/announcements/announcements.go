// internal/app/features/announcements/announcements.go
package announcements

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/bulletin/internal/app/system/auth"
	"github.com/dalemusser/bulletin/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies on create and update.
const maxBodyBytes = 1 << 20

type createResponse struct {
	ID string `json:"id"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// List handles GET /announcements/.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Service.ListActive(ctx)
	if err != nil {
		h.writeError(w, r, "failed to list announcements", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /announcements/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ann, err := h.Service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "failed to get announcement", err)
		return
	}
	writeJSON(w, http.StatusOK, ann)
}

// Create handles POST /announcements/.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentCaller(r)
	input, ok := h.readInput(w, r, caller)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := h.Service.Create(ctx, caller, input)
	if err != nil {
		h.writeError(w, r, "failed to create announcement", err)
		return
	}

	h.Log.Info("announcement created",
		zap.String("id", id),
		zap.String("caller", caller.ID))
	writeJSON(w, http.StatusCreated, createResponse{ID: id})
}

// Update handles PUT /announcements/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller, _ := auth.CurrentCaller(r)
	input, ok := h.readInput(w, r, caller)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Service.Update(ctx, caller, id, input); err != nil {
		h.writeError(w, r, "failed to update announcement", err)
		return
	}

	h.Log.Info("announcement updated",
		zap.String("id", id),
		zap.String("caller", caller.ID))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Delete handles DELETE /announcements/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller, _ := auth.CurrentCaller(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Service.Delete(ctx, caller, id); err != nil {
		h.writeError(w, r, "failed to delete announcement", err)
		return
	}

	h.Log.Info("announcement deleted",
		zap.String("id", id),
		zap.String("caller", caller.ID))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// decodeBody reads a JSON object body, keeping numbers as json.Number so
// they are stored without float rounding. A missing or malformed body yields
// an empty input, which the service rejects with its usual validation
// message. The only error returned is *http.MaxBytesError.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	var input map[string]any
	if r.Body == nil {
		return input, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		h.Log.Debug("ignoring unreadable request body",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return nil, nil
	}
	return input, nil
}

// readInput decodes the body for a mutation. It writes 413 and returns false
// when an authenticated caller sends an oversized body; without a caller the
// service still answers 401 first.
func (h *Handler) readInput(w http.ResponseWriter, r *http.Request, caller *auth.Caller) (map[string]any, bool) {
	input, err := h.decodeBody(w, r)
	if err != nil && caller != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "Request body too large"})
		return nil, false
	}
	return input, true
}

// writeError maps service errors to status codes. Anything unclassified is
// logged and reported as 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: ve.Msg})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Announcement not found"})
	default:
		h.Log.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal Server Error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
