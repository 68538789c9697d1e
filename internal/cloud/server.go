package cloud

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/abhisek/litguess/internal/progress"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	maxBodyBytes = 1 << 20
	maxKeys      = 64
)

var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// BackendFunc returns the storage for one player's data.
type BackendFunc func(playerID string) progress.Backend

// Server serves the cloud-save API.
type Server struct {
	backend BackendFunc
	hub     *Hub
	logger  *slog.Logger
}

// NewServer creates a Server storing player data through backend.
func NewServer(backend BackendFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		backend: backend,
		hub:     NewHub(logger),
		logger:  logger,
	}
}

// Hub returns the host signal hub.
func (s *Server) Hub() *Hub { return s.hub }

// Routes builds the HTTP handler with middleware attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/players/{playerID}/data", func(r chi.Router) {
			r.Use(chiMiddleware.Logger)
			r.Get("/", s.handleGetData)
			r.Put("/", s.handlePutData)
		})
		r.Get("/host/ws", s.hub.ServeHTTP)
	})
	return r
}

func (s *Server) playerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "playerID")
	if !playerIDPattern.MatchString(id) {
		Error(w, http.StatusBadRequest, "invalid player id")
		return "", false
	}
	return id, true
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}

	var keys []string
	for _, v := range r.URL.Query()["keys"] {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}
	if len(keys) == 0 {
		Error(w, http.StatusBadRequest, "keys query parameter is required")
		return
	}
	if len(keys) > maxKeys {
		Error(w, http.StatusBadRequest, "too many keys")
		return
	}

	data, err := s.backend(id).Get(r.Context(), keys)
	if err != nil {
		s.logger.Error("get player data", "player", id, "error", err)
		Error(w, http.StatusInternalServerError, "failed to read data")
		return
	}
	if data == nil {
		data = map[string]json.RawMessage{}
	}
	JSON(w, http.StatusOK, DataEnvelope{Data: data})
}

func (s *Server) handlePutData(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}

	var body DataEnvelope
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			Error(w, http.StatusRequestEntityTooLarge, "body too large")
			return
		}
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(body.Data) == 0 {
		Error(w, http.StatusBadRequest, "data must not be empty")
		return
	}
	if len(body.Data) > maxKeys {
		Error(w, http.StatusBadRequest, "too many keys")
		return
	}

	if err := s.backend(id).Set(r.Context(), body.Data); err != nil {
		s.logger.Error("put player data", "player", id, "error", err)
		Error(w, http.StatusInternalServerError, "failed to write data")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
