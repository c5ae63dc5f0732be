package inspect

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/transitions/pkg/blueprint"
	"github.com/dmitrymomot/transitions/pkg/logger"
	"github.com/dmitrymomot/transitions/pkg/statemachine"
)

// MachineView is the description of one machine served by the handler.
type MachineView struct {
	blueprint.Machine `yaml:",inline"`
	Type              string   `json:"type" yaml:"type"`
	AvailableStates   []string `json:"available_states" yaml:"available_states"`
	StateVariable     string   `json:"state_variable" yaml:"state_variable"`
}

type server struct {
	types  map[string]*statemachine.Type
	checks []func(context.Context) error
	log    *slog.Logger
}

// Option configures the handler.
type Option func(*server)

func WithLogger(l *slog.Logger) Option {
	return func(s *server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHealthchecks adds dependency probes, e.g. redisstore.Healthcheck, to the
// readiness endpoint.
func WithHealthchecks(checks ...func(context.Context) error) Option {
	return func(s *server) {
		s.checks = append(s.checks, checks...)
	}
}

// Router returns a read-only HTTP API describing the given types:
//
//	GET /types                             names of the registered types
//	GET /types/{type}                      every machine of the type
//	GET /types/{type}/machines/{machine}   one machine
//	GET /health/live                       liveness probe
//	GET /health/ready                      runs the configured healthchecks
//
// Responses are JSON; add ?format=yaml for YAML.
func Router(types []*statemachine.Type, opts ...Option) chi.Router {
	s := &server{
		types: make(map[string]*statemachine.Type, len(types)),
		log:   logger.Nop(),
	}
	for _, t := range types {
		s.types[t.Name()] = t
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/types", s.listTypes)
	r.Route("/types/{type}", func(r chi.Router) {
		r.Get("/", s.getType)
		r.Get("/machines/{machine}", s.getMachine)
	})
	r.Get("/health/live", s.live)
	r.Get("/health/ready", s.ready)
	return r
}

func (s *server) listTypes(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	s.respond(w, r, http.StatusOK, names)
}

func (s *server) getType(w http.ResponseWriter, r *http.Request) {
	typ, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respond(w, r, http.StatusOK, blueprint.FromType(typ))
}

func (s *server) getMachine(w http.ResponseWriter, r *http.Request) {
	typ, ok := s.lookup(w, r)
	if !ok {
		return
	}
	m, err := typ.Machine(chi.URLParam(r, "machine"))
	if err != nil {
		s.fail(w, r, http.StatusNotFound, "machine_not_found", err)
		return
	}
	s.respond(w, r, http.StatusOK, MachineView{
		Machine:         blueprint.FromMachine(m),
		Type:            typ.Name(),
		AvailableStates: m.AvailableStates(),
		StateVariable:   m.StateVariable(),
	})
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (*statemachine.Type, bool) {
	name := chi.URLParam(r, "type")
	typ, ok := s.types[name]
	if !ok {
		s.fail(w, r, http.StatusNotFound, "type_not_found", errUnknownType(name))
		return nil, false
	}
	return typ, true
}

func (s *server) live(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ALIVE"))
}

func (s *server) ready(w http.ResponseWriter, r *http.Request) {
	for _, check := range s.checks {
		if err := check(r.Context()); err != nil {
			s.log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}
