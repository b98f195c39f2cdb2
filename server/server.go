package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"briefium/generator"
	"briefium/render"
)

//go:embed web/index.html
var webFS embed.FS

// maxBodyBytes caps submissions; the six form fields are short.
const maxBodyBytes = 64 << 10

type Server struct {
	gen    *generator.Generator
	logger *zap.Logger
	page   *template.Template
}

func New(gen *generator.Generator, logger *zap.Logger) (*Server, error) {
	if gen == nil {
		return nil, errors.New("brief generator required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	page, err := template.ParseFS(webFS, "web/index.html")
	if err != nil {
		return nil, err
	}
	return &Server{gen: gen, logger: logger, page: page}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logMiddleware)

	r.Get("/", s.handleIndex)
	r.Post("/brief", s.handleFormSubmit)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Post("/briefs", s.handleBriefCreate)
	})
	return r
}

// --- Types ---

type options struct {
	Tones         []generator.Tone       `json:"tones"`
	PageTypes     []generator.PageType   `json:"page_types"`
	UserIntents   []generator.UserIntent `json:"user_intents"`
	MinWordCount  int                    `json:"min_word_count"`
	MaxWordCount  int                    `json:"max_word_count"`
	WordCountStep int                    `json:"word_count_step"`
	WordCount     int                    `json:"default_word_count"`
}

func formOptions() options {
	return options{
		Tones:         generator.Tones(),
		PageTypes:     generator.PageTypes(),
		UserIntents:   generator.UserIntents(),
		MinWordCount:  generator.MinWordCount,
		MaxWordCount:  generator.MaxWordCount,
		WordCountStep: generator.WordCountStep,
		WordCount:     generator.DefaultWordCount,
	}
}

type briefCreateReq struct {
	Topic      string `json:"topic"`
	Keywords   string `json:"keywords"`
	Tone       string `json:"tone"`
	WordCount  int    `json:"word_count"`
	PageType   string `json:"page_type"`
	UserIntent string `json:"user_intent"`
}

func (b briefCreateReq) toRequest() generator.BriefRequest {
	return generator.BriefRequest{
		Topic:      b.Topic,
		Keywords:   b.Keywords,
		Tone:       generator.Tone(b.Tone),
		WordCount:  generator.NormalizeWordCount(b.WordCount),
		PageType:   generator.PageType(b.PageType),
		UserIntent: generator.UserIntent(b.UserIntent),
	}
}

type briefResp struct {
	OK    bool   `json:"ok"`
	Brief string `json:"brief,omitempty"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

type pageData struct {
	Form      briefCreateReq
	Options   options
	Error     string
	BriefHTML template.HTML
}

// --- Handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{
		Form:    briefCreateReq{WordCount: generator.DefaultWordCount},
		Options: formOptions(),
	})
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wc, _ := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("word_count")))
	form := briefCreateReq{
		Topic:      r.PostForm.Get("topic"),
		Keywords:   r.PostForm.Get("keywords"),
		Tone:       r.PostForm.Get("tone"),
		WordCount:  generator.NormalizeWordCount(wc),
		PageType:   r.PostForm.Get("page_type"),
		UserIntent: r.PostForm.Get("user_intent"),
	}

	resp, ok := s.generate(r.Context(), w, form)
	if !ok {
		return
	}
	data := pageData{Form: form, Options: formOptions(), Error: resp.Error}
	if resp.OK {
		// Goldmark output with raw HTML omitted.
		data.BriefHTML = template.HTML(resp.HTML)
	}
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) handleBriefCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req briefCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, ok := s.generate(r.Context(), w, req)
	if !ok {
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, formOptions())
}

// generate runs one submission. It writes a 500 itself and returns false
// when the failure is a deployment defect rather than a brief result.
func (s *Server) generate(ctx context.Context, w http.ResponseWriter, in briefCreateReq) (briefResp, bool) {
	res, err := s.gen.Generate(ctx, in.toRequest())
	if err != nil {
		s.logger.Error("brief generation aborted", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return briefResp{}, false
	}
	if !res.OK() {
		return briefResp{Error: res.Message()}, true
	}
	html, err := render.HTML(res.Brief())
	if err != nil {
		s.logger.Error("markdown conversion failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return briefResp{}, false
	}
	return briefResp{OK: true, Brief: res.Brief(), HTML: html}, true
}

// --- Helpers ---

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("page render failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
