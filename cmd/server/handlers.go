package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cours-de-latin/edittree"
	"github.com/cours-de-latin/edittree/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// maxBodyBytes bounds the size of a batch request body.
const maxBodyBytes = 8 << 20

// ---- JSON request and response types -------------------------------------

type pairJSON struct {
	Form  string `json:"form"`
	Lemma string `json:"lemma"`
}

type encodeResponse struct {
	Form  string `json:"form"`
	Lemma string `json:"lemma"`
	Label string `json:"label"`
	Nodes int    `json:"nodes"`
	Depth int    `json:"depth"`
	// Backoff is set when the lemma was empty and the backoff was encoded.
	Backoff bool `json:"backoff,omitempty"`
}

type encodeBatchRequest struct {
	Pairs []pairJSON `json:"pairs"`
}

type encodeBatchResponse struct {
	Results []encodeResponse `json:"results"`
}

type decodeResponse struct {
	Form  string `json:"form"`
	Label string `json:"label"`
	Lemma string `json:"lemma"`
	// Matched is false when the tree did not fit the form and Lemma is the
	// backoff string.
	Matched bool `json:"matched"`
}

type strategiesResponse struct {
	Current    string   `json:"current"`
	Strategies []string `json:"strategies"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Offset *int   `json:"offset,omitempty"`
}

// ---- server --------------------------------------------------------------

type server struct {
	codec    *edittree.Codec
	maxBatch int
	logger   *slog.Logger
	metrics  *metrics
}

func newServer(codec *edittree.Codec, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) *server {
	return &server{
		codec:    codec,
		maxBatch: cfg.Server.MaxBatch,
		logger:   logger,
		metrics:  newMetrics(reg),
	}
}

// handler returns the routes wrapped in CORS handling.
func (s *server) handler(allowedOrigins []string, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/encode/batch", s.instrument("encode_batch", s.handleEncodeBatch))
	mux.Handle("/api/encode", s.instrument("encode", s.handleEncode))
	mux.Handle("/api/decode", s.instrument("decode", s.handleDecode))
	mux.Handle("/api/strategies", s.instrument("strategies", s.handleStrategies))
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

func (s *server) instrument(name string, h http.HandlerFunc) http.Handler {
	counter := s.metrics.requests.MustCurryWith(prometheus.Labels{"handler": name})
	duration := s.metrics.duration.MustCurryWith(prometheus.Labels{"handler": name})

	logged := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		s.logger.Debug("request", "handler", name, "method", r.Method, "elapsed", time.Since(start))
	})
	return promhttp.InstrumentHandlerDuration(duration, promhttp.InstrumentHandlerCounter(counter, logged))
}

// ---- helpers -------------------------------------------------------------

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *server) encode(form, lemma string) encodeResponse {
	tree := s.codec.Tree(form, lemma)
	return encodeResponse{
		Form:    form,
		Lemma:   lemma,
		Label:   edittree.Serialize(tree),
		Nodes:   edittree.Nodes(tree),
		Depth:   edittree.Depth(tree),
		Backoff: lemma == "" && form != "",
	}
}

// ---- handlers ------------------------------------------------------------

func (s *server) handleEncode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	q := r.URL.Query()
	if !q.Has("form") {
		s.writeError(w, http.StatusBadRequest, "missing 'form' query parameter")
		return
	}
	s.writeJSON(w, http.StatusOK, s.encode(q.Get("form"), q.Get("lemma")))
}

func (s *server) handleEncodeBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var body encodeBatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "body must be JSON with a 'pairs' array")
		return
	}
	if len(body.Pairs) > s.maxBatch {
		s.writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch of %d pairs exceeds the limit of %d", len(body.Pairs), s.maxBatch))
		return
	}

	out := make([]encodeResponse, 0, len(body.Pairs))
	for _, p := range body.Pairs {
		out = append(out, s.encode(p.Form, p.Lemma))
	}
	s.metrics.pairs.Add(float64(len(out)))
	s.writeJSON(w, http.StatusOK, encodeBatchResponse{Results: out})
}

func (s *server) handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	q := r.URL.Query()
	if !q.Has("label") {
		s.writeError(w, http.StatusBadRequest, "missing 'label' query parameter")
		return
	}
	form, label := q.Get("form"), q.Get("label")

	lemma, matched, err := s.codec.LemmaOrBackoff(form, label)
	if err != nil {
		s.metrics.decodes.WithLabelValues("malformed").Inc()
		resp := errorResponse{Error: err.Error()}
		var perr *edittree.ParseError
		if errors.As(err, &perr) {
			resp.Offset = &perr.Offset
		}
		s.writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	if matched {
		s.metrics.decodes.WithLabelValues("matched").Inc()
	} else {
		s.metrics.decodes.WithLabelValues("mismatch").Inc()
	}
	s.writeJSON(w, http.StatusOK, decodeResponse{
		Form:    form,
		Label:   label,
		Lemma:   lemma,
		Matched: matched,
	})
}

func (s *server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	names := make([]string, 0, len(edittree.BackoffKinds))
	for _, k := range edittree.BackoffKinds {
		names = append(names, k.String())
	}
	s.writeJSON(w, http.StatusOK, strategiesResponse{
		Current:    s.codec.Backoff.String(),
		Strategies: names,
	})
}
