package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"listing_tool/generator"
	"listing_tool/publisher"
)

//go:embed web/*
var embeddedStatic embed.FS

const (
	maxUploadBytes = 64 << 20
	maxImageBytes  = 20 << 20
)

type Server struct {
	agent    *generator.Agent
	pub      *publisher.Publisher
	store    *sessionStore
	log      *zap.Logger
	staticFS http.Handler
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*generator.Session
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*generator.Session)}
}

func (s *sessionStore) set(id string, sess *generator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *sessionStore) get(id string) (*generator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func New(agent *generator.Agent, pub *publisher.Publisher, log *zap.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if pub == nil {
		pub = publisher.New(publisher.DefaultBrand)
	}
	if log == nil {
		log = zap.NewNop()
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	return &Server{
		agent:    agent,
		pub:      pub,
		store:    newStore(),
		log:      log,
		staticFS: http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleSessionCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.withSession(s.handleSessionGet))
	mux.HandleFunc("PUT /api/sessions/{id}/fields", s.withSession(s.handleFields))
	mux.HandleFunc("POST /api/sessions/{id}/images", s.withSession(s.handleImages))
	mux.HandleFunc("POST /api/sessions/{id}/generate", s.withSession(s.handleGenerate))
	mux.HandleFunc("POST /api/sessions/{id}/update", s.withSession(s.handleUpdate))
	mux.HandleFunc("POST /api/sessions/{id}/quality", s.withSession(s.handleQuality))
	mux.HandleFunc("POST /api/sessions/{id}/clear", s.withSession(s.handleClear))
	mux.HandleFunc("GET /api/sessions/{id}/export", s.withSession(s.handleExport))
	mux.Handle("GET /", s.staticFS)
	return logMiddleware(s.log, mux)
}

// --- Handlers ---

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *generator.Session)

func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.store.get(r.PathValue("id"))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		h(w, r, sess)
	}
}

type sessionResp struct {
	generator.State
	TitleLimit int                `json:"title_limit"`
	ReportHTML string             `json:"report_html"`
	Copy       publisher.Payloads `json:"copy"`
	Analyzed   *bool              `json:"analyzed,omitempty"`
}

type fieldsReq struct {
	Source       string  `json:"source"`
	VariantsNote string  `json:"variants_note"`
	UpdateNotes  string  `json:"update_notes"`
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	sess := generator.NewSession(id, s.agent)
	s.store.set(id, sess)
	s.log.Info("session created", zap.String("session", id))
	s.writeState(w, http.StatusCreated, sess, nil)
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request, sess *generator.Session) {
	s.writeState(w, http.StatusOK, sess, nil)
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request, sess *generator.Session) {
	var req fieldsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.SetFields(generator.Fields{
		Source:       req.Source,
		VariantsNote: req.VariantsNote,
		UpdateNotes:  req.UpdateNotes,
	})
	if req.Title != nil || req.Description != nil {
		cur := sess.State().Draft
		title, desc := cur.Title, cur.Description
		if req.Title != nil {
			title = *req.Title
		}
		if req.Description != nil {
			desc = *req.Description
		}
		sess.EditListing(title, desc)
	}
	s.writeState(w, http.StatusOK, sess, nil)
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request, sess *generator.Session) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	images, err := readImages(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	analyzed, err := sess.AttachImages(r.Context(), images)
	if err != nil {
		s.fail(w, sess, "images", err)
		return
	}
	s.writeState(w, http.StatusOK, sess, &analyzed)
}

func readImages(r *http.Request) ([]generator.Image, error) {
	var images []generator.Image
	for _, fh := range r.MultipartForm.File["images"] {
		if fh.Size > maxImageBytes {
			return nil, fmt.Errorf("image %s exceeds %d MB", fh.Filename, maxImageBytes>>20)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		images = append(images, generator.Image{
			Name:     fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return images, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request, sess *generator.Session) {
	if _, err := sess.Generate(r.Context()); err != nil {
		s.fail(w, sess, "generate", err)
		return
	}
	s.writeState(w, http.StatusOK, sess, nil)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, sess *generator.Session) {
	if _, err := sess.ApplyUpdates(r.Context()); err != nil {
		s.fail(w, sess, "update", err)
		return
	}
	s.writeState(w, http.StatusOK, sess, nil)
}

func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request, sess *generator.Session) {
	if _, err := sess.QualityCheck(r.Context()); err != nil {
		s.fail(w, sess, "quality", err)
		return
	}
	s.writeState(w, http.StatusOK, sess, nil)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request, sess *generator.Session) {
	sess.Clear()
	s.writeState(w, http.StatusOK, sess, nil)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, sess *generator.Session) {
	d := sess.State().Draft
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="listing.html"`)
	}
	_, _ = io.WriteString(w, s.pub.Export(d.Title, d.Description))
}

// --- Helpers ---

func (s *Server) writeState(w http.ResponseWriter, status int, sess *generator.Session, analyzed *bool) {
	st := sess.State()
	report, err := s.pub.ReportHTML(st.QualityReport)
	if err != nil {
		s.log.Warn("render quality report", zap.String("session", st.ID), zap.Error(err))
	}
	writeJSON(w, status, sessionResp{
		State:      st,
		TitleLimit: generator.TitleLimit,
		ReportHTML: report,
		Copy:       s.pub.Payloads(st.Draft.Title, st.Draft.Description),
		Analyzed:   analyzed,
	})
}

// fail reports an action error. The session is left as it was before the action.
func (s *Server) fail(w http.ResponseWriter, sess *generator.Session, action string, err error) {
	status := statusFor(err)
	fields := []zap.Field{zap.String("session", sess.ID), zap.String("action", action), zap.Int("status", status), zap.Error(err)}
	if status >= http.StatusInternalServerError {
		s.log.Error("action failed", fields...)
	} else {
		s.log.Info("action rejected", fields...)
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, generator.ErrMissingAPIKey):
		return http.StatusPreconditionFailed
	case generator.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generator.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("http",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}
