package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blockedby/interview-list/internal/events"
	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/models"
	"github.com/blockedby/interview-list/internal/web"
)

// DocumentsHandler serves /api/v1/users/{uid}/interviews. Contents are not
// validated: the client owns the document shape.
type DocumentsHandler struct {
	repo      DocumentRepository
	publisher events.Publisher
	log       *logger.Logger
}

// NewDocumentsHandler creates a DocumentsHandler. publisher may be nil.
func NewDocumentsHandler(repo DocumentRepository, publisher events.Publisher, log *logger.Logger) *DocumentsHandler {
	return &DocumentsHandler{repo: repo, publisher: publisher, log: log.Component("documents_handler")}
}

// List returns every interview of the user, ordered by ?order_by and
// ?direction (asc or desc).
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	orderBy := r.URL.Query().Get("order_by")
	desc := r.URL.Query().Get("direction") == "desc"

	docs, err := h.repo.List(r.Context(), uid, orderBy, desc)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Data)
	}
	web.WriteJSON(w, http.StatusOK, out)
}

// Get returns one interview.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.repo.Get(r.Context(), chi.URLParam(r, "uid"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, doc.Data)
}

// Set replaces or creates an interview.
func (h *DocumentsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if !decodeBody(w, r, &data) {
		return
	}

	uid, id := chi.URLParam(r, "uid"), chi.URLParam(r, "id")
	if err := h.repo.Set(r.Context(), uid, id, data); err != nil {
		writeError(w, h.log, err)
		return
	}

	h.publish(r.Context(), uid, id, events.OpSet)
	w.WriteHeader(http.StatusNoContent)
}

// Update merges the body into an existing interview.
func (h *DocumentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if !decodeBody(w, r, &patch) {
		return
	}
	if patch == nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeInvalidArgument, "patch body must be a JSON object")
		return
	}

	uid, id := chi.URLParam(r, "uid"), chi.URLParam(r, "id")
	if err := h.repo.Merge(r.Context(), uid, id, patch); err != nil {
		writeError(w, h.log, err)
		return
	}

	h.publish(r.Context(), uid, id, events.OpUpdate)
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an interview. Missing interviews still yield 204.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, id := chi.URLParam(r, "uid"), chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), uid, id); err != nil {
		writeError(w, h.log, err)
		return
	}

	h.publish(r.Context(), uid, id, events.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns the number of interviews per status.
func (h *DocumentsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.repo.CountByStatus(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	stats := models.InterviewStats{ByStatus: make(map[models.InterviewStatus]int, len(models.InterviewStatuses))}
	for _, st := range models.InterviewStatuses {
		stats.ByStatus[st] = 0
	}
	for status, n := range counts {
		stats.ByStatus[models.InterviewStatus(status)] += n
		stats.Total += n
	}
	web.WriteJSON(w, http.StatusOK, stats)
}

// publish announces a change. Failures are logged, the write already happened.
func (h *DocumentsHandler) publish(ctx context.Context, uid, id, op string) {
	if h.publisher == nil {
		return
	}
	change := events.Change{UserID: uid, InterviewID: id, Op: op, At: time.Now().UTC()}
	if err := h.publisher.PublishChange(ctx, change); err != nil {
		h.log.Warn().Err(err).Str("interview_id", id).Msg("failed to publish change")
	}
}
