package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/faq"
	"portfolio-assistant/backend/internal/knowledge"
	"portfolio-assistant/backend/internal/reasoning"
	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/internal/state"
	apperrors "portfolio-assistant/backend/pkg/errors"
)

// ChatRequest is the body of POST /api/chat. A blank message is valid and
// gets the fallback answer.
type ChatRequest struct {
	Message string `json:"message"`
	Debug   bool   `json:"debug"`
}

// SuggestionsRequest is the body of POST /api/suggestions
type SuggestionsRequest struct {
	Messages []state.ChatMessage `json:"messages"`
	Limit    int                 `json:"limit"`
}

// SuggestionsResponse lists follow-up questions
type SuggestionsResponse struct {
	Suggestions []faq.Record `json:"suggestions"`
}

// EntityResponse is one entity with its edges
type EntityResponse struct {
	Entity   knowledge.Entity         `json:"entity"`
	Outgoing []knowledge.Relationship `json:"outgoing"`
	Incoming []knowledge.Relationship `json:"incoming"`
}

// PathsResponse lists explained paths between two entities
type PathsResponse struct {
	From  string           `json:"from"`
	To    string           `json:"to"`
	Depth int              `json:"depth"`
	Paths []reasoning.Path `json:"paths"`
}

// respondError maps typed errors onto status codes
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewInvalidRequest("body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	if req.Debug {
		c.JSON(http.StatusOK, s.assistant.AskWithDebug(ctx, services.SurfaceHTTP, req.Message))
		return
	}
	c.JSON(http.StatusOK, s.assistant.Ask(ctx, services.SurfaceHTTP, req.Message))
}

func (s *Server) handleSuggestions(c *gin.Context) {
	var req SuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewInvalidRequest("body", err.Error()))
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.opts.SuggestionLimit
	}
	c.JSON(http.StatusOK, SuggestionsResponse{
		Suggestions: s.assistant.Suggest(req.Messages, limit),
	})
}

func (s *Server) handleFAQs(c *gin.Context) {
	faqs := s.assistant.Orchestrator().AvailableFAQs()
	c.JSON(http.StatusOK, gin.H{
		"faqs":  faqs,
		"count": len(faqs),
	})
}

func (s *Server) handleGraphStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.assistant.Orchestrator().Store().Stats())
}

func (s *Server) handleEntities(c *gin.Context) {
	store := s.assistant.Orchestrator().Store()

	var entities []knowledge.Entity
	switch raw := c.Query("type"); {
	case raw != "":
		t := knowledge.EntityType(raw)
		if !t.Valid() {
			s.respondError(c, apperrors.NewInvalidRequest("type", "unknown entity type "+strconv.Quote(raw)))
			return
		}
		entities = store.EntitiesByType(t)
	case c.Query("q") != "":
		entities = s.assistant.Orchestrator().CandidateEntities(c.Query("q"))
	default:
		entities = store.Entities()
	}

	if entities == nil {
		entities = []knowledge.Entity{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entities": entities,
		"count":    len(entities),
	})
}

func (s *Server) entity(id string) (knowledge.Entity, error) {
	e, ok := s.assistant.Orchestrator().Store().Entity(id)
	if !ok {
		return knowledge.Entity{}, apperrors.NewEntityNotFound(id)
	}
	return e, nil
}

func (s *Server) handleEntity(c *gin.Context) {
	e, err := s.entity(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	store := s.assistant.Orchestrator().Store()
	c.JSON(http.StatusOK, EntityResponse{
		Entity:   e,
		Outgoing: nonNil(store.Outgoing(e.ID)),
		Incoming: nonNil(store.Incoming(e.ID)),
	})
}

func (s *Server) handleConnected(c *gin.Context) {
	e, err := s.entity(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	depth, err := depthParam(c, 1)
	if err != nil {
		s.respondError(c, err)
		return
	}

	connected := s.assistant.Orchestrator().Store().Connected(e.ID, depth)
	if connected == nil {
		connected = []knowledge.Entity{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entity":    e.ID,
		"depth":     depth,
		"connected": connected,
	})
}

func (s *Server) handlePaths(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		s.respondError(c, apperrors.NewInvalidRequest("from/to", "both are required"))
		return
	}
	for _, id := range []string{from, to} {
		if _, err := s.entity(id); err != nil {
			s.respondError(c, err)
			return
		}
	}

	depth, err := depthParam(c, constants.GraphMaxDepth)
	if err != nil {
		s.respondError(c, err)
		return
	}

	paths := s.assistant.Orchestrator().ExplainPaths(from, to, depth)
	if paths == nil {
		paths = []reasoning.Path{}
	}
	c.JSON(http.StatusOK, PathsResponse{From: from, To: to, Depth: depth, Paths: paths})
}

// depthParam reads ?depth=, bounded to [1, GraphMaxDepth]
func depthParam(c *gin.Context, def int) (int, error) {
	raw := c.Query("depth")
	if raw == "" {
		return def, nil
	}
	depth, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewInvalidRequest("depth", "must be an integer")
	}
	if depth < 1 || depth > constants.GraphMaxDepth {
		return 0, apperrors.NewInvalidRequest("depth", "must be between 1 and "+strconv.Itoa(constants.GraphMaxDepth))
	}
	return depth, nil
}

func nonNil(rels []knowledge.Relationship) []knowledge.Relationship {
	if rels == nil {
		return []knowledge.Relationship{}
	}
	return rels
}

