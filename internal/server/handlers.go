package server

import (
	"encoding/base64"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/salesdash/internal/dashboard"
	"github.com/KaramelBytes/salesdash/internal/dataset"
	"github.com/KaramelBytes/salesdash/internal/render"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "ok", "dataset": s.store.Source(), "rows": s.store.Len()})
}

func (s *Server) domainsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Domains())
}

// build parses the query with parse and recomputes every panel, writing a 400 on bad input.
func (s *Server) build(w http.ResponseWriter, r *http.Request, parse func(url.Values) (dataset.Selection, error)) (*dashboard.Dashboard, bool) {
	sel, err := parse(r.URL.Query())
	if err == nil {
		var d *dashboard.Dashboard
		if d, err = dashboard.Build(s.store, sel, s.opt.Dashboard); err == nil {
			return d, true
		}
	}
	if errors.Is(err, dataset.ErrInvalidSelection) {
		WriteJSONError(w, http.StatusBadRequest, "invalid selection", err.Error())
	} else {
		s.log.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("build dashboard failed")
		WriteJSONError(w, http.StatusInternalServerError, "dashboard failed", err.Error())
	}
	return nil, false
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := s.build(w, r, ParseSelection)
	if !ok {
		return
	}
	writeJSON(w, d)
}

func (s *Server) chartHandler(w http.ResponseWriter, r *http.Request) {
	p, err := dashboard.ParsePanel(chi.URLParam(r, "slot"))
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, "unknown panel", err.Error())
		return
	}
	d, ok := s.build(w, r, ParseSelection)
	if !ok {
		return
	}
	b, err := render.SVGBytes(d.Chart(p), s.opt.ChartSize)
	if err != nil {
		s.log.Error().Err(err).Str("panel", p.String()).Msg("render failed")
		WriteJSONError(w, http.StatusInternalServerError, "render failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(b)
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := s.build(w, r, parseFormSelection)
	if !ok {
		return
	}
	page := newPageData(s.store, d)
	for i, spec := range d.Charts {
		b, err := render.SVGBytes(spec, s.opt.ChartSize)
		if err != nil {
			s.log.Error().Err(err).Int("panel", i+1).Msg("render failed")
			WriteJSONError(w, http.StatusInternalServerError, "render failed", err.Error())
			return
		}
		page.Panels[i].Src = template.URL(dataURI(b))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, page); err != nil {
		s.log.Error().Err(err).Msg("render index failed")
	}
}

func dataURI(svg []byte) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
}
