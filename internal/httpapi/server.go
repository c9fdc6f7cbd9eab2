// Package httpapi exposes the translation pipeline over HTTP: a health
// check and one query endpoint that returns the response envelope
// verbatim. Parse rejections are data, not transport errors, so they
// ship with 200; only execution failures map to 500.
package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tabletalk/tabletalk/internal/dispatch"
	"github.com/tabletalk/tabletalk/internal/service"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// Server is the HTTP boundary over a Service.
type Server struct {
	svc *service.Service
	log *slog.Logger
}

// New creates the HTTP boundary. A nil logger silences request logging.
func New(svc *service.Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{svc: svc, log: log}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID())

	r.GET("/", s.handleHealth)
	r.POST("/query", s.handleQuery)
	return r
}

// requestID tags every request with a UUID for log correlation and
// echoes it back in the X-Request-ID header.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dispatch.ErrorEnvelope(
			"", "Request body must be JSON with a non-empty \"query\" field", nil))
		return
	}

	id, _ := c.Get("request_id")
	s.log.Info("query received", "request_id", id, "query", req.Query)

	env := s.svc.TranslateAndRun(c.Request.Context(), req.Query)
	c.JSON(statusFor(env), env)
}

// statusFor maps envelopes to HTTP statuses. Rejections and unknown
// fields are successful translations of bad input; only database-side
// failures surface as server errors.
func statusFor(env dispatch.Envelope) int {
	if env.Type == dispatch.TypeError && strings.HasPrefix(env.Message, "Error executing query") {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
