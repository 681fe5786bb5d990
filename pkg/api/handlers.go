package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/forgeapps/advsearch/pkg/core"
	"github.com/forgeapps/advsearch/pkg/query"
	"github.com/forgeapps/advsearch/pkg/search"
	"github.com/forgeapps/advsearch/pkg/version"
)

// HandleSearch executes one advanced-search request. Field-level
// validation failures come back as 400 with the offending field; a
// request where every source failed comes back as 503, distinct from
// an empty-but-successful result.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	spec, err := s.parser.Parse(r.URL.Query())
	if err != nil {
		var parseErr *query.ParseError
		if errors.As(err, &parseErr) {
			s.logger.Debugf("request %s rejected: %v", requestID, parseErr)
			s.writeError(w, http.StatusBadRequest, "Invalid search input", parseErr.Error())
			return
		}
		s.writeError(w, http.StatusBadRequest, "Invalid search input", err.Error())
		return
	}

	view, err := s.aggregator.Search(r.Context(), spec)
	if err != nil {
		var allFailed *search.AllSourcesFailedError
		if errors.As(err, &allFailed) {
			s.logger.Errorf("request %s: %v", requestID, allFailed)
			s.writeError(w, http.StatusServiceUnavailable, "Search unavailable", allFailed.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	items := make([]MatchResponse, len(view.Items))
	for i, m := range view.Items {
		items[i] = MatchResponse{
			Source:    m.Source,
			Title:     m.Title,
			Href:      m.Href,
			Summary:   m.Summary,
			Author:    m.Author,
			Date:      m.Timestamp,
			Relevance: m.Relevance,
		}
	}

	response := SearchResponse{
		Query:          spec.RawQuery,
		Page:           view.Page,
		PerPage:        spec.PerPage,
		TotalDisplayed: view.TotalDisplayed,
		HasNextPage:    view.HasNextPage,
		Items:          items,
	}
	if view.HasNextPage {
		response.NextPage = "/api/search?" + spec.NextPageValues().Encode()
	}

	s.logger.Debugf("request %s: q=%q page=%d displayed=%d next=%v",
		requestID, spec.RawQuery, view.Page, view.TotalDisplayed, view.HasNextPage)

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleListSources(w http.ResponseWriter, r *http.Request) {
	adapters := s.registry.GetAllSources()

	sources := make([]SourceInfo, 0, len(adapters))
	for _, name := range s.registry.ListSources() {
		adapter := adapters[name]
		info := SourceInfo{
			Name: name,
			Type: adapter.Type(),
		}
		if provider, ok := adapter.(core.StatsProvider); ok {
			if stats, err := provider.Stats(); err == nil {
				if total, ok := stats["total_documents"].(int); ok {
					info.Documents = total
				}
			}
		}
		sources = append(sources, info)
	}

	response := ListSourcesResponse{
		Sources: sources,
		Count:   len(sources),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	response := StatsResponse{
		Sources: make(map[string]map[string]interface{}),
	}

	for name, adapter := range s.registry.GetAllSources() {
		provider, ok := adapter.(core.StatsProvider)
		if !ok {
			continue
		}
		stats, err := provider.Stats()
		if err != nil {
			s.logger.Warnf("stats for source %s: %v", name, err)
			continue
		}
		response.Sources[name] = stats
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.APIVersion(),
	})
}
