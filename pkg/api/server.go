// Package api exposes the search engine over HTTP. The JSON result
// view it serves is the boundary artifact handed to the external
// presentation layer; no markup is rendered here.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/forgeapps/advsearch/pkg/core"
	"github.com/forgeapps/advsearch/pkg/log"
	"github.com/forgeapps/advsearch/pkg/query"
	"github.com/forgeapps/advsearch/pkg/search"
)

type Server struct {
	registry   *core.Registry
	aggregator *search.Aggregator
	parser     *query.Parser
	logger     *log.Logger
}

func NewServer(registry *core.Registry, aggregator *search.Aggregator, parser *query.Parser) *Server {
	return &Server{
		registry:   registry,
		aggregator: aggregator,
		parser:     parser,
		logger:     log.ForService("api"),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
