package main

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"time"

	"wikiquiz"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	sessionName = "wikiquiz-session"
	sessionKey  = "view_id"
)

//go:embed templates/*.html static/*
var assets embed.FS

type Server struct {
	api       *wikiquiz.Client
	views     wikiquiz.ViewStore
	store     *sessions.CookieStore
	templates map[wikiquiz.Tab]*template.Template
	log       *zap.SugaredLogger
	backend   *url.URL
	origins   []string
}

// NewServer wires the frontend for cfg. Views are kept in views.
func NewServer(cfg wikiquiz.Config, views wikiquiz.ViewStore, log *zap.SugaredLogger) (*Server, error) {
	base, err := cfg.APIBase()
	if err != nil {
		return nil, err
	}
	backend, err := url.Parse(cfg.BackendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	maxAge := 86400 * 7
	if cfg.ViewTTL > 0 {
		maxAge = int(cfg.ViewTTL / time.Second)
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		api:       wikiquiz.NewClient(base, cfg.APITimeout),
		views:     views,
		store:     store,
		templates: templates,
		log:       log,
		backend:   backend,
		origins:   cfg.CORSOrigins,
	}, nil
}

func loadTemplates() (map[wikiquiz.Tab]*template.Template, error) {
	templateFiles := []struct {
		tab  wikiquiz.Tab
		file string
	}{
		{wikiquiz.TabGenerate, "templates/generate.html"},
		{wikiquiz.TabHistory, "templates/history.html"},
	}

	templates := make(map[wikiquiz.Tab]*template.Template)
	for _, tmpl := range templateFiles {
		t, err := template.New(string(tmpl.tab)).ParseFS(assets,
			"templates/base.html", tmpl.file, "templates/panel.html", "templates/study.html", "templates/take.html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tmpl.file, err)
		}
		templates[tmpl.tab] = t
	}
	return templates, nil
}

// Routes returns the HTTP handler of the frontend.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.log), middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Post("/tab/{tab}", s.handleTab)

	r.Post("/preview", s.handlePreview)
	r.Post("/generate", s.handleGenerate)
	r.Post("/mode/{mode}", s.handleMode)
	r.Post("/take/select", s.handleSelect)
	r.Post("/take/submit", s.handleSubmit)

	r.Route("/history", func(hr chi.Router) {
		hr.Post("/{quizID}/details", s.handleDetails)
		hr.Post("/close", s.handleClose)
		hr.Post("/mode/{mode}", s.handleDetailMode)
		hr.Post("/take/select", s.handleDetailSelect)
		hr.Post("/take/submit", s.handleDetailSubmit)
	})

	r.Handle("/static/*", http.FileServer(http.FS(assets)))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(ar chi.Router) {
		ar.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		ar.Handle("/*", s.apiProxy())
	})
	return r
}

// apiProxy forwards /api requests to the backend unchanged.
func (s *Server) apiProxy() http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(s.backend)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.log.Warnw("backend proxy failed", "path", r.URL.Path, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"detail":"Backend unavailable"}`)
	}
	return proxy
}

// viewID returns the visitor's view id, issuing one on the first visit.
func (s *Server) viewID(w http.ResponseWriter, r *http.Request) string {
	session, _ := s.store.Get(r, sessionName)
	if id, ok := session.Values[sessionKey].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	session.Values[sessionKey] = id
	if err := session.Save(r, w); err != nil {
		s.log.Errorw("Session save error", "error", err)
	}
	return id
}

// update applies fn to the visitor's shell. On failure it answers 500 and
// returns false.
func (s *Server) update(w http.ResponseWriter, r *http.Request, id string, fn func(*wikiquiz.Shell)) bool {
	err := s.views.Update(r.Context(), id, func(sh *wikiquiz.Shell) error {
		fn(sh)
		return nil
	})
	if err != nil {
		s.log.Errorw("Failed to update view", "view", id, "error", err)
		http.Error(w, "Failed to update view", http.StatusInternalServerError)
		return false
	}
	return true
}

// finish stores the outcome of a backend call. It runs after the call
// returned, so failures are only logged.
func (s *Server) finish(ctx context.Context, id string, fn func(*wikiquiz.Shell) bool) {
	err := s.views.Update(ctx, id, func(sh *wikiquiz.Shell) error {
		if !fn(sh) {
			wikiquiz.VerboseLog("discarded stale response for view %s", id)
		}
		return nil
	})
	if err != nil {
		s.log.Errorw("Failed to store response", "view", id, "error", err)
	}
}

// backendContext detaches a backend call from the browser request so that a
// dropped connection does not cancel it.
func backendContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func redirectHome(w http.ResponseWriter, r *http.Request, fragment string) {
	target := "/"
	if fragment != "" {
		target += "#" + fragment
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	id := s.viewID(w, r)
	shell, err := s.views.Load(r.Context(), id)
	if errors.Is(err, wikiquiz.ErrViewNotFound) {
		shell, err = wikiquiz.NewShell(), nil
	}
	if err != nil {
		s.log.Errorw("Failed to load view", "view", id, "error", err)
		http.Error(w, "Failed to load view", http.StatusInternalServerError)
		return
	}
	s.render(w, shell)
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	tab, ok := wikiquiz.ParseTab(chi.URLParam(r, "tab"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	id := s.viewID(w, r)

	var (
		tok     wikiquiz.Token
		mounted bool
	)
	if !s.update(w, r, id, func(sh *wikiquiz.Shell) { tok, mounted = sh.SelectTab(tab) }) {
		return
	}
	if mounted {
		quizzes, err := s.api.ListQuizzes(backendContext(r))
		if err != nil {
			s.log.Infow("Failed to list quizzes", "view", id, "error", err)
		}
		s.finish(r.Context(), id, func(sh *wikiquiz.Shell) bool {
			return sh.History != nil && sh.History.FinishList(tok, quizzes, err)
		})
	}
	redirectHome(w, r, "")
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	_, hasURL := r.PostForm["url"]
	input := r.PostFormValue("url")
	id := s.viewID(w, r)

	var (
		tok        wikiquiz.Token
		started    bool
		articleURL string
	)
	ok := s.update(w, r, id, func(sh *wikiquiz.Shell) {
		if sh.Generate == nil {
			return
		}
		if hasURL {
			sh.Generate.SetURL(input)
		}
		tok, started = sh.Generate.BeginPreview()
		articleURL = sh.Generate.TrimmedURL()
	})
	if !ok {
		return
	}
	if started {
		res, err := s.api.Preview(backendContext(r), articleURL)
		if err != nil {
			s.log.Infow("Preview failed", "view", id, "url", articleURL, "error", err)
		}
		s.finish(r.Context(), id, func(sh *wikiquiz.Shell) bool {
			return sh.Generate != nil && sh.Generate.FinishPreview(tok, res, err)
		})
	}
	redirectHome(w, r, "")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	_, hasURL := r.PostForm["url"]
	input := r.PostFormValue("url")
	id := s.viewID(w, r)

	var (
		tok        wikiquiz.Token
		started    bool
		articleURL string
	)
	ok := s.update(w, r, id, func(sh *wikiquiz.Shell) {
		if sh.Generate == nil {
			return
		}
		if hasURL {
			sh.Generate.SetURL(input)
		}
		tok, started = sh.Generate.BeginGenerate()
		articleURL = sh.Generate.TrimmedURL()
	})
	if !ok {
		return
	}
	if started {
		start := time.Now()
		quiz, err := s.api.Generate(backendContext(r), articleURL)
		if err != nil {
			s.log.Infow("Generate failed", "view", id, "url", articleURL, "error", err)
		} else {
			s.log.Infow("Quiz generated", "view", id, "url", articleURL,
				"questions", len(quiz.Quiz), "duration", time.Since(start))
		}
		s.finish(r.Context(), id, func(sh *wikiquiz.Shell) bool {
			return sh.Generate != nil && sh.Generate.FinishGenerate(tok, quiz, err)
		})
	}
	redirectHome(w, r, "")
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	mode, ok := wikiquiz.ParseViewMode(chi.URLParam(r, "mode"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	id := s.viewID(w, r)
	if s.update(w, r, id, func(sh *wikiquiz.Shell) {
		if sh.Generate != nil {
			sh.Generate.Panel.SetMode(mode)
		}
	}) {
		redirectHome(w, r, "")
	}
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.selectAnswer(w, r, func(sh *wikiquiz.Shell) *wikiquiz.QuizPanel {
		if sh.Generate == nil {
			return nil
		}
		return &sh.Generate.Panel
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.submitAnswers(w, r, func(sh *wikiquiz.Shell) *wikiquiz.QuizPanel {
		if sh.Generate == nil {
			return nil
		}
		return &sh.Generate.Panel
	})
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	quizID, err := strconv.Atoi(chi.URLParam(r, "quizID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	id := s.viewID(w, r)

	var (
		tok    wikiquiz.Token
		opened bool
	)
	if !s.update(w, r, id, func(sh *wikiquiz.Shell) {
		if sh.History != nil {
			tok, opened = sh.History.OpenDetails(), true
		}
	}) {
		return
	}
	if opened {
		quiz, err := s.api.GetQuiz(backendContext(r), quizID)
		if err != nil {
			s.log.Infow("Failed to load quiz", "view", id, "quiz", quizID, "error", err)
		}
		s.finish(r.Context(), id, func(sh *wikiquiz.Shell) bool {
			return sh.History != nil && sh.History.FinishDetails(tok, quiz, err)
		})
	}
	redirectHome(w, r, "")
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	id := s.viewID(w, r)
	if s.update(w, r, id, func(sh *wikiquiz.Shell) {
		if sh.History != nil {
			sh.History.CloseModal()
		}
	}) {
		redirectHome(w, r, "")
	}
}

func (s *Server) handleDetailMode(w http.ResponseWriter, r *http.Request) {
	mode, ok := wikiquiz.ParseViewMode(chi.URLParam(r, "mode"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	id := s.viewID(w, r)
	if s.update(w, r, id, func(sh *wikiquiz.Shell) {
		if sh.History != nil && sh.History.Detail.Quiz != nil {
			sh.History.Detail.SetMode(mode)
		}
	}) {
		redirectHome(w, r, "")
	}
}

func (s *Server) handleDetailSelect(w http.ResponseWriter, r *http.Request) {
	s.selectAnswer(w, r, detailPanel)
}

func (s *Server) handleDetailSubmit(w http.ResponseWriter, r *http.Request) {
	s.submitAnswers(w, r, detailPanel)
}

func detailPanel(sh *wikiquiz.Shell) *wikiquiz.QuizPanel {
	if sh.History == nil {
		return nil
	}
	return &sh.History.Detail
}

func (s *Server) selectAnswer(w http.ResponseWriter, r *http.Request, panel func(*wikiquiz.Shell) *wikiquiz.QuizPanel) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	q, err := strconv.Atoi(r.PostFormValue("q"))
	if err != nil {
		http.Error(w, "Invalid question", http.StatusBadRequest)
		return
	}
	option := r.PostFormValue("option")
	id := s.viewID(w, r)
	if s.update(w, r, id, func(sh *wikiquiz.Shell) {
		if p := panel(sh); p != nil {
			p.Select(q, option)
		}
	}) {
		redirectHome(w, r, fmt.Sprintf("take-q%d", q))
	}
}

func (s *Server) submitAnswers(w http.ResponseWriter, r *http.Request, panel func(*wikiquiz.Shell) *wikiquiz.QuizPanel) {
	id := s.viewID(w, r)
	if s.update(w, r, id, func(sh *wikiquiz.Shell) {
		if p := panel(sh); p != nil {
			p.Submit()
		}
	}) {
		redirectHome(w, r, "")
	}
}

func (s *Server) render(w http.ResponseWriter, shell *wikiquiz.Shell) {
	data := newPageData(shell)
	tmpl, ok := s.templates[data.Tab]
	if !ok {
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.log.Errorw("Template error", "tab", data.Tab, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
