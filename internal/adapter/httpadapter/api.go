package httpadapter

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Melanieheviap/DataViz-S5/internal/deck"
	"github.com/Melanieheviap/DataViz-S5/internal/domain"
	"github.com/Melanieheviap/DataViz-S5/internal/session"
)

//go:embed web/index.html
var web embed.FS

// maxBodyBytes caps selection request bodies.
const maxBodyBytes = 64 << 10

// Renderer serves the area catalog and filtered views.
type Renderer interface {
	CheckReadiness(ctx context.Context) error
	Areas(ctx context.Context) ([]string, error)
	Render(ctx context.Context, sel domain.Selection) (domain.View, error)
}

type api struct {
	renderer Renderer
	sessions *session.Store
	settings deck.Settings
	logger   *slog.Logger
}

type viewResponse struct {
	Session   string          `json:"session,omitempty"`
	Selection []string        `json:"selection"`
	Empty     bool            `json:"empty"`
	Count     int             `json:"count"`
	Centroid  domain.Centroid `json:"centroid"`
	Records   []domain.Record `json:"records"`
	Deck      deck.Deck       `json:"deck"`
}

type selectionRequest struct {
	Areas []string `json:"areas"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *api) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("GET /api/areas", a.handleAreas)
	mux.HandleFunc("GET /api/view", a.handleView)
	mux.HandleFunc("POST /api/sessions", a.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", a.handleGetSession)
	mux.HandleFunc("PUT /api/sessions/{id}/selection", a.handleSetSelection)
	mux.HandleFunc("DELETE /api/sessions/{id}", a.handleDeleteSession)
}

func (a *api) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := web.ReadFile("web/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page) //nolint:errcheck // client may have gone away
}

func (a *api) handleAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := a.renderer.Areas(r.Context())
	if err != nil {
		a.sourceUnavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"areas": areas})
}

func (a *api) handleView(w http.ResponseWriter, r *http.Request) {
	sel := domain.NewSelection(r.URL.Query()["area"]...)
	a.render(w, r, "", sel)
}

func (a *api) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if err := a.renderer.CheckReadiness(r.Context()); err != nil {
		a.sourceUnavailable(w, err)
		return
	}
	sess := a.sessions.Create()
	a.logger.Debug("session created", "session", sess.ID)
	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	a.renderStatus(w, r, http.StatusCreated, sess.ID, sess.Selection)
}

func (a *api) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessions.Get(r.PathValue("id"))
	if err != nil {
		a.sessionError(w, err)
		return
	}
	a.render(w, r, sess.ID, sess.Selection)
}

func (a *api) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid selection body: "+err.Error())
		return
	}

	sess, err := a.sessions.SetSelection(r.PathValue("id"), domain.NewSelection(req.Areas...))
	if err != nil {
		a.sessionError(w, err)
		return
	}
	a.logger.Debug("selection changed", "session", sess.ID, "areas", sess.Selection.Areas())
	a.render(w, r, sess.ID, sess.Selection)
}

func (a *api) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !a.sessions.Delete(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, session.ErrNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) render(w http.ResponseWriter, r *http.Request, id string, sel domain.Selection) {
	a.renderStatus(w, r, http.StatusOK, id, sel)
}

func (a *api) renderStatus(w http.ResponseWriter, r *http.Request, status int, id string, sel domain.Selection) {
	view, err := a.renderer.Render(r.Context(), sel)
	if err != nil {
		a.sourceUnavailable(w, err)
		return
	}

	records := view.Records
	if records == nil {
		records = []domain.Record{}
	}
	selection := view.Selection
	if selection == nil {
		selection = []string{}
	}

	writeJSON(w, status, viewResponse{
		Session:   id,
		Selection: selection,
		Empty:     view.Empty,
		Count:     len(records),
		Centroid:  view.Centroid,
		Records:   records,
		Deck:      deck.Build(view, a.settings),
	})
}

func (a *api) sourceUnavailable(w http.ResponseWriter, err error) {
	a.logger.Error("source unavailable", "error", err)
	writeError(w, http.StatusServiceUnavailable, err.Error())
}

func (a *api) sessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
