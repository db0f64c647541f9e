package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/finder"
	"github.com/nova-labs/influencer-cli/internal/model"
	"github.com/nova-labs/influencer-cli/internal/pipeline"
)

// maxRecommendations caps the per-request result size regardless of what
// the client asks for.
const maxRecommendations = 20

// filterOptions is the static vocabulary the front end renders its filter
// controls from.
var filterOptions = map[string]any{
	"industries": []string{
		"Fitness & Wellness", "Beauty & Fashion", "Technology", "Food & Cooking",
		"Travel", "Gaming", "Business & Finance", "Parenting & Family",
	},
	"content_types": []string{
		"Photo Posts", "Short Video", "Long Video", "Live Streams",
		"Stories", "Blog Articles", "Podcasts",
	},
	"platforms": []string{
		"instagram", "twitter", "linkedin", "youtube", "facebook",
	},
	"audiences": []string{
		"Gen Z", "Millennials", "Parents", "Professionals", "Students",
	},
}

// apiServer serves the recommendation JSON API.
type apiServer struct {
	finder   *finder.Finder
	enricher *pipeline.Enricher
	policy   pipeline.FilterPolicy
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/filter-options", s.handleFilterOptions)
	r.Post("/api/recommendations", s.handleRecommendations)
	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, filterOptions)
}

type recommendationRequest struct {
	Filters model.FilterSet `json:"filters"`
	Limit   int             `json:"limit"`
}

type recommendationResponse struct {
	Success         bool                                 `json:"success"`
	Count           int                                  `json:"count"`
	Recommendations []model.ContactRecord                `json:"recommendations"`
	Tiered          map[model.Tier][]model.ContactRecord `json:"tiered_influencers"`
	TierCounts      map[model.Tier]int                   `json:"tier_counts"`
	Suggestion      string                               `json:"suggestion,omitempty"`
}

func (s *apiServer) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > maxRecommendations {
		limit = maxRecommendations
	}

	candidates, err := s.finder.Find(r.Context(), req.Filters, limit)
	if err != nil {
		zap.L().Error("assistant search failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   "influencer search unavailable",
		})
		return
	}

	if s.enricher != nil {
		candidates = s.enricher.Enrich(r.Context(), candidates)
	}

	rec := pipeline.BuildRecommendation(candidates, req.Filters, s.policy, limit)
	writeJSON(w, http.StatusOK, recommendationResponse{
		Success:         true,
		Count:           len(rec.Records),
		Recommendations: rec.Records,
		Tiered:          rec.Tiers,
		TierCounts:      rec.TierCounts,
		Suggestion:      rec.Suggestion,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}
