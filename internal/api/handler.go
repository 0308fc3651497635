// internal/api/handler.go
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"commit-digest/internal/database"
	"commit-digest/internal/window"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Handler is the container for API dependencies.
type Handler struct {
	db     database.Querier
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(db database.Querier, logger *slog.Logger) http.Handler {
	h := &Handler{
		db:     db,
		logger: logger,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/digests", h.listDigests)
		r.Get("/digests/{date}", h.getDigest)
		r.Get("/digests/{date}/commits", h.getDigestCommits)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listDigests returns the most recent digests.
// GET /v1/digests?limit=N
func (h *Handler) listDigests(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 || n > maxLimit {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter. Must be an integer between 1 and 100.")
			return
		}
		limit = n
	}

	digests, err := h.db.ListDigests(r.Context(), int32(limit))
	if err != nil {
		h.logger.Error("Failed to list digests", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, digests)
}

// getDigest returns the latest digest archived for a day.
// GET /v1/digests/{date}
func (h *Handler) getDigest(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookupDigest(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, d)
}

// getDigestCommits returns the commits archived with the latest digest of a day.
// GET /v1/digests/{date}/commits
func (h *Handler) getDigestCommits(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookupDigest(w, r)
	if !ok {
		return
	}

	commits, err := h.db.ListDigestCommits(r.Context(), d.ID)
	if err != nil {
		h.logger.Error("Failed to list digest commits", "digest_id", d.ID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, commits)
}

// lookupDigest resolves the {date} parameter. It writes the error response
// itself and reports whether the caller should continue.
func (h *Handler) lookupDigest(w http.ResponseWriter, r *http.Request) (database.Digest, bool) {
	dateStr := chi.URLParam(r, "date")
	day, err := time.Parse(window.DateLayout, dateStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date. Expected YYYY-MM-DD.")
		return database.Digest{}, false
	}

	d, err := h.db.GetLatestDigestByDate(r.Context(), pgtype.Date{Time: day, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Digest not found")
			return database.Digest{}, false
		}
		h.logger.Error("Failed to get digest", "date", dateStr, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return database.Digest{}, false
	}
	return d, true
}
