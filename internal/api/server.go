// Package api serves loaded profiling sessions over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/profinfo/internal/logger"
	"github.com/samcharles93/profinfo/pkg/profinfo"
)

type Config struct {
	// ProfilesDir is the only directory sessions may be loaded from.
	ProfilesDir string
	CacheSize   int
	// Tool labels decoder diagnostics.
	Tool   string
	Logger logger.Logger
}

type Server struct {
	dir   string
	store *SessionStore
	cache *ProfileCache
	log   logger.Logger
	clock func() time.Time
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.ProfilesDir == "" {
		return nil, errors.New("api: profiles directory is required")
	}
	if cfg.Tool == "" {
		cfg.Tool = "profinfo"
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	cache, err := NewProfileCache(cfg.Tool, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Server{
		dir:   cfg.ProfilesDir,
		store: NewSessionStore(),
		cache: cache,
		log:   cfg.Logger,
		clock: time.Now,
	}, nil
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/profiles", s.handleListProfiles)
	e.GET("/v1/sessions", s.handleListSessions)
	e.POST("/v1/sessions", s.handleCreateSession)
	e.GET("/v1/sessions/:id", s.handleGetSession)
	e.DELETE("/v1/sessions/:id", s.handleDeleteSession)
	e.GET("/v1/sessions/:id/tables/:table", s.handleGetTable)
	e.GET("/v1/sessions/:id/values", s.handleGetValues)
}

func (s *Server) handleListProfiles(c *echo.Context) error {
	profiles, err := DiscoverProfiles(s.dir)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return c.JSON(http.StatusOK, ListResponse[ProfileEntry]{Object: "list", Data: profiles})
}

func (s *Server) handleListSessions(c *echo.Context) error {
	recs := s.store.List()
	data := make([]SessionResponse, 0, len(recs))
	for _, rec := range recs {
		data = append(data, rec.response())
	}
	return c.JSON(http.StatusOK, ListResponse[SessionResponse]{Object: "list", Data: data})
}

func (s *Server) handleCreateSession(c *echo.Context) error {
	req, err := decodeJSON[CreateSessionRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	path, err := resolveProfile(s.dir, req.Name)
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("%v: %q", err, req.Name))
	}

	start := s.clock()
	sess, cached, err := s.cache.Load(path)
	if err != nil {
		s.log.Warn("profile load failed", "name", req.Name, "error", err)
		return writeLoadError(c, req.Name, err)
	}
	rec := s.store.Create(req.Name, sess, cached, s.clock())
	s.log.Info("session created",
		"id", rec.ID,
		"name", req.Name,
		"cached", cached,
		"executions", sess.NumExecutions(),
		"elapsed", s.clock().Sub(start),
	)
	return c.JSON(http.StatusOK, rec.response())
}

func (s *Server) handleGetSession(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "session not found")
	}
	return c.JSON(http.StatusOK, rec.response())
}

func (s *Server) handleDeleteSession(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "session not found")
	}
	return c.JSON(http.StatusOK, DeleteResponse{ID: id, Deleted: true})
}

func (s *Server) handleGetTable(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "session not found")
	}
	table, err := profinfo.ParseTable(c.Param("table"))
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	counts := rec.Session.Table(table)
	if counts == nil {
		counts = []uint32{}
	}
	return c.JSON(http.StatusOK, TableResponse{
		SessionID: rec.ID,
		Table:     table.String(),
		Uncounted: profinfo.Uncounted,
		Counts:    counts,
	})
}

func (s *Server) handleGetValues(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "session not found")
	}
	values := rec.Session.ValueContents
	if values == nil {
		values = [][]int32{}
	}
	return c.JSON(http.StatusOK, ValuesResponse{SessionID: rec.ID, Values: values})
}
