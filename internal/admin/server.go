package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ecopulse-sim/internal/health"
	"ecopulse-sim/internal/logging"
	"ecopulse-sim/internal/prefs"
	"ecopulse-sim/internal/sensor"
	"ecopulse-sim/internal/sim"
)

// Source is the read side of the simulator.
type Source interface {
	StationID() string
	TickInterval() time.Duration
	Current() sim.Reading
	Stats() sim.Stats
	Subscribe(buffer int) (<-chan sim.Reading, func())
}

type Server struct {
	src    Source
	prefs  *prefs.Store
	env    prefs.Environment
	hub    *Hub
	tpl    *template.Template
	router *mux.Router
}

//go:embed templates/index.html
var content embed.FS

var funcs = template.FuncMap{"t": prefs.T}

func NewServer(src Source, store *prefs.Store, env prefs.Environment) *Server {
	if store == nil {
		store = prefs.NewMemoryStore(prefs.Default())
	}
	if env == nil {
		env = prefs.OSEnvironment{}
	}
	tpl := template.Must(template.New("index.html").Funcs(funcs).ParseFS(content, "templates/index.html"))
	s := &Server{src: src, prefs: store, env: env, hub: NewHub(src), tpl: tpl}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/actions", s.handleActions).Methods(http.MethodGet)
	r.HandleFunc("/preferences", s.handleGetPreferences).Methods(http.MethodGet)
	r.HandleFunc("/preferences", s.handlePutPreferences).Methods(http.MethodPut)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	r.Handle("/ws", s.hub).Methods(http.MethodGet)
	s.router = r
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub serving /ws.
func (s *Server) Hub() *Hub { return s.hub }

// Start serves addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()
	go s.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("admin server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("shutting down admin server")
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) resolved() prefs.Resolved {
	return prefs.Resolve(s.prefs.Get(), s.env)
}

type actionView struct {
	health.Action
	Message string `json:"message"`
}

func (s *Server) actions(lang prefs.Language, snap sensor.Snapshot) []actionView {
	acts := health.Recommend(snap)
	out := make([]actionView, 0, len(acts))
	for _, a := range acts {
		out = append(out, actionView{Action: a, Message: prefs.T(lang, a.MessageKey)})
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	res := s.resolved()
	cur := s.src.Current()
	data := struct {
		Lang    prefs.Language
		RTL     bool
		Theme   prefs.Theme
		Reading sim.Reading
		Actions []actionView
		Stats   sim.Stats
	}{
		Lang:    res.Language,
		RTL:     res.RTL,
		Theme:   res.Theme,
		Reading: cur,
		Actions: s.actions(res.Language, cur.Snapshot),
		Stats:   s.src.Stats(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Error("render index", "err", err)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.src.Current())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cur := s.src.Current()
	writeJSON(w, http.StatusOK, struct {
		StationID string `json:"station_id"`
		health.Assessment
		Timestamp time.Time `json:"ts"`
		Stats     sim.Stats `json:"stats"`
	}{
		StationID:  cur.StationID,
		Assessment: cur.Assessment,
		Timestamp:  cur.Timestamp,
		Stats:      s.src.Stats(),
	})
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	lang := s.resolved().Language
	if q := r.URL.Query().Get("lang"); q != "" {
		l, err := prefs.ParseLanguage(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		lang = prefs.Resolve(prefs.Preferences{Language: l}, s.env).Language
	}
	writeJSON(w, http.StatusOK, s.actions(lang, s.src.Current().Snapshot))
}

type preferencesResponse struct {
	Preferences prefs.Preferences `json:"preferences"`
	Resolved    prefs.Resolved    `json:"resolved"`
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	p := s.prefs.Get()
	writeJSON(w, http.StatusOK, preferencesResponse{Preferences: p, Resolved: prefs.Resolve(p, s.env)})
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language *string `json:"language"`
		Theme    *string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	p := s.prefs.Get()
	if body.Language != nil {
		p.Language = prefs.Language(*body.Language)
	}
	if body.Theme != nil {
		p.Theme = prefs.Theme(*body.Theme)
	}
	if err := s.prefs.Set(p); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, prefs.ErrUnknownLanguage) || errors.Is(err, prefs.ErrUnknownTheme) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	p = s.prefs.Get()
	writeJSON(w, http.StatusOK, preferencesResponse{Preferences: p, Resolved: prefs.Resolve(p, s.env)})
}
