package server

import (
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/prgraph/pkg/buildinfo"
	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/errors"
	"github.com/matzehuels/prgraph/pkg/pipeline"
	"github.com/matzehuels/prgraph/pkg/render/nodelink"
	"github.com/matzehuels/prgraph/pkg/render/report"
	"github.com/matzehuels/prgraph/pkg/session"
	"github.com/matzehuels/prgraph/pkg/source"
)

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

// datasetResponse describes an uploaded dataset.
type datasetResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Version    string    `json:"version"`
	Rows       int       `json:"rows"`
	Columns    []string  `json:"columns"`
	Categories int       `json:"categories"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type identifiersResponse struct {
	Category    string   `json:"category"`
	Rows        int      `json:"rows"`
	Identifiers []string `json:"identifiers"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// upload handles POST /api/v1/datasets.
//
// The dataset is either the "file" part of a multipart form, whose name
// selects the format unless ?format= is given, or the raw request body,
// which requires ?format=.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	opts := s.cfg.Source
	if sheet := r.URL.Query().Get("sheet"); sheet != "" {
		if err := errors.ValidateSheetName(sheet); err != nil {
			s.respondError(w, r, err)
			return
		}
		opts.Sheet = sheet
	}

	body, name, format, err := s.uploadBody(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer body.Close()

	start := time.Now()
	ds, err := source.Decode(body, format, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sess := session.New(name, ds, s.cfg.DatasetTTL)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store dataset"))
		return
	}

	s.logger.Info("dataset uploaded",
		"id", sess.ID,
		"name", name,
		"rows", ds.Len(),
		"version", ds.Version(),
		"duration", time.Since(start))
	s.respondJSON(w, http.StatusCreated, s.describe(r, sess))
}

func (s *Server) uploadBody(r *http.Request) (io.ReadCloser, string, source.Format, error) {
	query := r.URL.Query().Get("format")
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if strings.HasPrefix(mediaType, "multipart/") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read upload")
		}
		name := header.Filename
		var format source.Format
		if query != "" {
			format, err = source.ParseFormat(query)
		} else {
			format, err = source.FormatOf(name)
		}
		if err != nil {
			file.Close()
			return nil, "", "", err
		}
		return file, name, format, nil
	}

	if query == "" {
		return nil, "", "", errors.New(errors.ErrCodeInvalidInput,
			"format query parameter is required for raw uploads")
	}
	format, err := source.ParseFormat(query)
	if err != nil {
		return nil, "", "", err
	}
	return r.Body, r.URL.Query().Get("name"), format, nil
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, s.describe(r, sess))
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete dataset"))
		return
	}
	s.runner.Forget(sess.Dataset)
	s.logger.Info("dataset deleted", "id", sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, categoriesResponse{
		Categories: s.runner.Categories(r.Context(), sess.Dataset),
	})
}

func (s *Server) identifiers(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	category := dataset.Normalize(r.URL.Query().Get("category"))
	view := s.runner.View(r.Context(), sess.Dataset, category)
	s.respondJSON(w, http.StatusOK, identifiersResponse{
		Category:    category,
		Rows:        view.Len(),
		Identifiers: s.runner.Identifiers(r.Context(), sess.Dataset, category),
	})
}

func (s *Server) connections(w http.ResponseWriter, r *http.Request) {
	sess, opts, ok := s.resolveRequest(w, r)
	if !ok {
		return
	}
	res, err := s.runner.Resolve(r.Context(), sess.Dataset, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) rows(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, err := pathIdentifier(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(report.FormatJSON)
	}
	format, err := report.ParseFormat(name, report.FormatJSON, report.FormatCSV)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	category := dataset.Normalize(r.URL.Query().Get("category"))
	byA, byB := s.runner.Rows(r.Context(), sess.Dataset, category, id)
	view := report.RowsView{
		ID:      dataset.Normalize(id),
		Columns: sess.Dataset.Columns(),
		ByA:     byA,
		ByB:     byB,
		Schema:  sess.Dataset.Schema(),
	}

	if format == report.FormatCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	if err := report.WriteRows(w, view, format); err != nil {
		s.logger.Error("failed to write rows", "error", err)
	}
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	sess, opts, ok := s.resolveRequest(w, r)
	if !ok {
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "svg"
	}
	if format != "svg" && format != "dot" {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidFormat, "graph format must be dot or svg, got %q", format))
		return
	}

	res, err := s.runner.Resolve(r.Context(), sess.Dataset, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	dot := nodelink.ToDOT(res, nodelink.Options{Title: opts.Category})

	if format == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = io.WriteString(w, dot)
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// session looks up the dataset named in the path and writes a 404 when it
// is unknown or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "datasetID")
	if !session.ValidID(id) {
		s.respondError(w, r, errors.New(errors.ErrCodeNotFound, "dataset %q not found", id))
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) resolveRequest(w http.ResponseWriter, r *http.Request) (*session.Session, pipeline.Options, bool) {
	sess, ok := s.session(w, r)
	if !ok {
		return nil, pipeline.Options{}, false
	}
	id, err := pathIdentifier(r)
	if err != nil {
		s.respondError(w, r, err)
		return nil, pipeline.Options{}, false
	}
	scope, err := pipeline.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		s.respondError(w, r, err)
		return nil, pipeline.Options{}, false
	}
	return sess, pipeline.Options{
		Category: dataset.Normalize(r.URL.Query().Get("category")),
		Scope:    scope,
		ID:       id,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	}, true
}

func pathIdentifier(r *http.Request) (string, error) {
	id := chi.URLParam(r, "pr")
	if err := errors.ValidateIdentifier(id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Server) describe(r *http.Request, sess *session.Session) datasetResponse {
	return datasetResponse{
		ID:         sess.ID,
		Name:       sess.Name,
		Version:    sess.Dataset.Version(),
		Rows:       sess.Dataset.Len(),
		Columns:    sess.Dataset.Columns(),
		Categories: len(s.runner.Categories(r.Context(), sess.Dataset)),
		CreatedAt:  sess.CreatedAt,
		ExpiresAt:  sess.ExpiresAt,
	}
}
