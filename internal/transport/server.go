// Package transport exposes the storage facade over HTTP.
package transport

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

// DefaultMaxBodyBytes caps appended content.
const DefaultMaxBodyBytes int64 = 32 << 20

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Server routes HTTP requests to the storage facade.
type Server struct {
	engine       *gin.Engine
	storage      Storage
	metrics      Metrics
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewServer creates a Server. A non-positive maxBodyBytes uses DefaultMaxBodyBytes.
func NewServer(storage Storage, metrics Metrics, maxBodyBytes int64, logger *zap.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		engine:       engine,
		storage:      storage,
		metrics:      metrics,
		logger:       logger.Named("http"),
		maxBodyBytes: maxBodyBytes,
	}
	engine.Use(s.observe)
	s.registerRoutes()
	return s
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.engine)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/v1")
	{
		v1.POST("/entries", s.appendEntry)
		v1.GET("/entries", s.listEntries)
		v1.GET("/entries/:contentId", s.readEntry)
	}
}

func (s *Server) observe(c *gin.Context) {
	started := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	code := c.Writer.Status()
	if s.metrics != nil {
		s.metrics.Observe(route, code, started)
	}
	s.logger.Debug("request served",
		zap.String("method", c.Request.Method),
		zap.String("route", route),
		zap.Int("status", code),
		zap.Duration("took", time.Since(started)),
	)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) appendEntry(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	res, err := s.storage.Append(c.Request.Context(), data)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusCreated, appendResponse{ContentID: res.ContentID, Meta: newMetadataResponse(res.Meta)})
}

func (s *Server) readEntry(c *gin.Context) {
	id := c.Param("contentId")
	res, err := s.storage.Read(c.Request.Context(), id)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, entryResponse{
		ContentID:    id,
		Content:      res.Content,
		DeclaredSize: res.DeclaredSize,
		Meta:         newMetadataResponse(res.Meta),
	})
}

// listEntries serves the full listing, or the entries whose block timestamps
// fall within the optional from/to unix seconds.
func (s *Server) listEntries(c *gin.Context) {
	boundary, err := parseBoundary(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	listed, err := s.storage.ListAll(c.Request.Context(), boundary)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}

	resp := listResponse{Entries: make([]entryResponse, 0, len(listed))}
	for _, e := range listed {
		resp.Entries = append(resp.Entries, entryResponse{
			ContentID:    e.ContentID,
			Content:      e.Content,
			DeclaredSize: e.DeclaredSize,
			Meta:         newMetadataResponse(e.Meta),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func parseBoundary(c *gin.Context) (*model.TimeBoundary, error) {
	from, err := optionalUint(c, "from")
	if err != nil {
		return nil, err
	}
	to, err := optionalUint(c, "to")
	if err != nil {
		return nil, err
	}
	if from == nil && to == nil {
		return nil, nil
	}
	return &model.TimeBoundary{From: from, To: to}, nil
}

func optionalUint(c *gin.Context, key string) (*uint64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errors.New("query parameter " + key + " must be unix seconds")
	}
	return &v, nil
}

func (s *Server) fail(c *gin.Context, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.logger.Warn("request failed", zap.String("route", c.FullPath()), zap.Int("status", code), zap.Error(err))
	}
	c.AbortWithStatusJSON(code, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrEmptyInput), errors.Is(err, model.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
