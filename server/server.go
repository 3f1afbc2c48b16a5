package server

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	tastematch "github.com/gkoduol/tastematch"
	"github.com/gkoduol/tastematch/model"
	"github.com/gkoduol/tastematch/store"
	"github.com/gkoduol/tastematch/yelp"
)

// codeAlphabet excludes ambiguous characters (I, O, 0, 1) so group codes
// survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// codeLength is the length of generated group codes.
const codeLength = 6

func makeCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}

// Searcher finds candidate restaurants for a group session.
type Searcher interface {
	Search(ctx context.Context, params yelp.SearchParams) ([]model.Restaurant, error)
}

// Embedder derives one embedding vector per input text, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([]model.Vector, error)
}

// Server is the HTTP front for the recommendation engine.
type Server struct {
	rec      *tastematch.Recommender
	groups   store.GroupStore
	ratings  store.RatingStore
	catalog  store.CatalogStore
	searcher Searcher
	embedder Embedder
	logger   *slog.Logger
	newCode  func() string
	newID    func() string
}

// Option configures the Server.
type Option func(*Server)

// WithSearcher provides the candidate-search backend. Without one the
// items endpoint answers 503.
func WithSearcher(s Searcher) Option {
	return func(srv *Server) { srv.searcher = s }
}

// WithEmbedder provides the embedding backend. Without one, fetched
// candidates are stored without embeddings and only the rating path can
// recommend them.
func WithEmbedder(e Embedder) Option {
	return func(srv *Server) { srv.embedder = e }
}

// WithLogger overrides the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// New creates a Server over the recommender and its stores.
func New(rec *tastematch.Recommender, stores tastematch.Stores, opts ...Option) *Server {
	srv := &Server{
		rec:     rec,
		groups:  stores.Groups,
		ratings: stores.Ratings,
		catalog: stores.Catalog,
		logger:  slog.Default(),
		newCode: makeCode,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHealth)
	r.Route("/groups", func(r chi.Router) {
		r.Post("/", s.handleCreateGroup)
		r.Route("/{groupID}", func(r chi.Router) {
			r.Get("/", s.handleJoinGroup)
			r.Get("/items", s.handleItems)
			r.Post("/ratings", s.handleAddRating)
			r.Get("/best", s.handleBest)
			r.Get("/best-by-ratings", s.handleBestByRatings)
			r.Get("/best-by-similarity", s.handleBestBySimilarity)
		})
	})
	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := gojson.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeEngineError maps engine errors onto HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "group not found")
	case errors.Is(err, tastematch.ErrEmptyInput):
		s.writeError(w, http.StatusUnprocessableEntity, "no ratings yet")
	case errors.Is(err, tastematch.ErrInsufficientData):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Codes collide rarely at 32^6; retry a few times before giving up.
	for range 5 {
		code := s.newCode()
		if _, err := s.groups.GetGroup(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			s.writeEngineError(w, err)
			return
		}
		group := model.Group{ID: code, CreatedAt: time.Now().UTC()}
		if err := s.groups.CreateGroup(ctx, group); err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.logger.Info("group created", "group_id", code)
		s.writeJSON(w, http.StatusCreated, map[string]string{"group_id": code})
		return
	}
	s.writeError(w, http.StatusInternalServerError, "could not allocate group code")
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := chi.URLParam(r, "groupID")
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := s.groups.AddMember(ctx, groupID, userID); err != nil {
		s.writeEngineError(w, err)
		return
	}
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	ratings, err := s.ratings.ListRatings(ctx, groupID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"group_id":      group.ID,
		"members":       group.Members,
		"ratings_count": len(ratings),
	})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := chi.URLParam(r, "groupID")
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		s.writeEngineError(w, err)
		return
	}
	if s.searcher == nil {
		s.writeError(w, http.StatusServiceUnavailable, "candidate search is not configured")
		return
	}

	location := r.URL.Query().Get("location")
	if location == "" {
		s.writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	items, err := s.searcher.Search(ctx, yelp.SearchParams{
		Location: location,
		Term:     r.URL.Query().Get("term"),
	})
	if err != nil {
		s.logger.Error("candidate search failed", "group_id", groupID, "error", err)
		s.writeError(w, http.StatusBadGateway, "candidate search failed")
		return
	}

	if err := s.indexCandidates(ctx, items); err != nil {
		// Candidates without embeddings degrade to the rating path; the
		// search result is still useful to the caller.
		s.logger.Warn("candidate indexing incomplete", "group_id", groupID, "error", err)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// indexCandidates stores fetched restaurants in the catalog, embedding
// them when an embedder is configured.
func (s *Server) indexCandidates(ctx context.Context, items []model.Restaurant) error {
	var vectors []model.Vector
	var embedErr error
	if s.embedder != nil && len(items) > 0 {
		texts := make([]string, len(items))
		for i, item := range items {
			texts[i] = embeddingText(item)
		}
		vectors, embedErr = s.embedder.Embed(ctx, texts)
		if embedErr != nil {
			vectors = nil
		}
	}

	for i, item := range items {
		cand := model.Candidate{Restaurant: item}
		if vectors != nil {
			cand.Embedding = vectors[i]
		}
		if err := s.catalog.PutCandidate(ctx, cand); err != nil {
			return err
		}
	}
	return embedErr
}

// embeddingText is the textual rendering of a restaurant fed to the
// embedding model.
func embeddingText(item model.Restaurant) string {
	text := item.Name
	if item.Categories != "" {
		text += ". " + item.Categories
	}
	return text
}

type ratingRequest struct {
	UserID   string            `json:"user_id"`
	ItemID   string            `json:"item_id"`
	Rating   int               `json:"rating"`
	Snapshot *model.Restaurant `json:"item_snapshot,omitempty"`
}

func (s *Server) handleAddRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := chi.URLParam(r, "groupID")
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		s.writeEngineError(w, err)
		return
	}

	var req ratingRequest
	if err := gojson.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" || req.ItemID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id and item_id are required")
		return
	}

	rating := model.Rating{
		ID:        s.newID(),
		GroupID:   groupID,
		UserID:    req.UserID,
		ItemID:    req.ItemID,
		Value:     req.Rating,
		Snapshot:  req.Snapshot,
		CreatedAt: time.Now().UTC(),
	}
	if !rating.ValidValue() {
		s.writeError(w, http.StatusUnprocessableEntity, "rating must be an integer between 1 and 5")
		return
	}

	if err := s.ratings.AppendRating(ctx, rating); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "rating_id": rating.ID})
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	s.respondBest(w, r, s.rec.Best)
}

func (s *Server) handleBestByRatings(w http.ResponseWriter, r *http.Request) {
	s.respondBest(w, r, s.rec.BestByRatings)
}

func (s *Server) handleBestBySimilarity(w http.ResponseWriter, r *http.Request) {
	s.respondBest(w, r, s.rec.BestBySimilarity)
}

func (s *Server) respondBest(w http.ResponseWriter, r *http.Request,
	pick func(context.Context, string) (*model.BestResult, error),
) {
	ctx := r.Context()
	groupID := chi.URLParam(r, "groupID")
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		s.writeEngineError(w, err)
		return
	}

	result, err := pick(ctx, groupID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"best": result})
}
