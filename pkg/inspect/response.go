package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/transitions/pkg/logger"
)

// ErrUnknownType is returned for type names that were not registered with Router.
var ErrUnknownType = errors.New("unknown type")

func errUnknownType(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Response is the envelope of every JSON or YAML body.
type Response struct {
	Data  any          `json:"data,omitempty" yaml:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty" yaml:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func (s *server) respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.write(w, r, status, Response{Data: data})
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	s.write(w, r, status, Response{Error: &ErrorDetail{Code: code, Message: err.Error()}})
}

func (s *server) write(w http.ResponseWriter, r *http.Request, status int, body Response) {
	var err error
	if r.URL.Query().Get("format") == "yaml" {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.WriteHeader(status)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(body); err == nil {
			err = enc.Close()
		}
	} else {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		err = json.NewEncoder(w).Encode(body)
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "failed to write response", logger.Error(err))
	}
}
