package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"namecraft/backend/internal/metrics"
	"namecraft/backend/internal/naming"
	"namecraft/backend/internal/store"
	"namecraft/backend/internal/util"
)

// ErrEmptyDescription rejects generation requests without a usable description.
var ErrEmptyDescription = errors.New("description is required")

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
	statusListLimit     = 1000
	healthTimeout       = 2 * time.Second
)

// NameGenerator produces names for one request and never fails.
type NameGenerator interface {
	Generate(ctx context.Context, req naming.Request) naming.Result
}

// HistoryObserver counts history write outcomes.
type HistoryObserver interface {
	ObserveHistoryWrite(outcome string)
}

// Config defines server dependencies. Everything is built by the caller.
type Config struct {
	Generator      NameGenerator
	Store          store.HistoryStore
	Observer       HistoryObserver
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// Server wires HTTP handlers with generation and persistence.
type Server struct {
	generator      NameGenerator
	store          store.HistoryStore
	observer       HistoryObserver
	gatherer       prometheus.Gatherer
	allowedOrigins []string
	notifier       *HistoryNotifier
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Generator == nil {
		return nil, errors.New("name generator required")
	}
	if cfg.Store == nil {
		return nil, errors.New("history store required")
	}
	return &Server{
		generator:      cfg.Generator,
		store:          cfg.Store,
		observer:       cfg.Observer,
		gatherer:       cfg.Gatherer,
		allowedOrigins: cfg.AllowedOrigins,
		notifier:       NewHistoryNotifier(),
	}, nil
}

// Notifier exposes the live history feed.
func (s *Server) Notifier() *HistoryNotifier {
	return s.notifier
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestIDMiddleware())

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(s.gatherer)))
	}

	api := r.Group("/api")
	{
		api.GET("/", s.handleRoot)
		api.GET("/healthz", s.handleHealth)
		api.POST("/status", s.handleCreateStatus)
		api.GET("/status", s.handleListStatus)
		api.POST("/generate-names", s.handleGenerateNames)
		api.GET("/generation-history", s.handleHistory)
		api.GET("/generation-history/stream", s.handleHistoryStream)
	}

	return r, nil
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "NamaCraft API - modern name generator for apps and SaaS"})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.renderError(c, http.StatusServiceUnavailable, fmt.Errorf("history store unavailable: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGenerateNames(c *gin.Context) {
	var req GenerateNamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		s.renderError(c, http.StatusBadRequest, ErrEmptyDescription)
		return
	}
	count := naming.DefaultCount
	if req.Count != nil {
		count = *req.Count
	}
	industry := strings.TrimSpace(req.Industry)
	style := strings.TrimSpace(req.Style)

	// Generation and the history write run to completion even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	timer := util.StartTimer()
	result := s.generator.Generate(ctx, naming.Request{
		Description: req.Description,
		Industry:    industry,
		Style:       style,
		Count:       count,
	})

	s.recordHistory(ctx, store.NewHistoryRecord(req.Description, industry, style, result.Names))

	logrus.WithFields(logrus.Fields{
		"request_id": RequestIDFromContext(ctx),
		"session_id": result.SessionID,
		"source":     result.Source,
		"count":      count,
		"elapsed_ms": timer.ElapsedMs(),
	}).Info("generate names request served")

	c.JSON(http.StatusOK, GenerateNamesResponse{Names: result.Names, GeneratedCount: len(result.Names)})
}

// recordHistory persists best-effort. Failures are logged and counted only.
func (s *Server) recordHistory(ctx context.Context, record *store.HistoryRecord) {
	if err := s.store.SaveHistory(ctx, record); err != nil {
		s.observeHistoryWrite("error")
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": RequestIDFromContext(ctx),
			"record_id":  record.ID,
		}).Warn("save generation history")
		return
	}
	s.observeHistoryWrite("ok")
	dto := toHistoryDTO(*record)
	s.notifier.Broadcast(HistoryEvent{Type: "history", Record: &dto})
}

func (s *Server) observeHistoryWrite(outcome string) {
	if s.observer != nil {
		s.observer.ObserveHistoryWrite(outcome)
	}
}

func (s *Server) handleHistory(c *gin.Context) {
	limit, err := parseHistoryLimit(c.Query("limit"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	records, err := s.store.RecentHistory(c.Request.Context(), limit)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, toHistoryDTOs(records))
}

func parseHistoryLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid limit: %s", raw)
	}
	if limit < 1 {
		return 1, nil
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit, nil
	}
	return limit, nil
}

func (s *Server) handleCreateStatus(c *gin.Context) {
	var req StatusCheckCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	check := store.NewStatusCheck(req.ClientName)
	if err := s.store.SaveStatusCheck(c.Request.Context(), check); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, toStatusCheckDTO(*check))
}

func (s *Server) handleListStatus(c *gin.Context) {
	checks, err := s.store.ListStatusChecks(c.Request.Context(), statusListLimit)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	out := make([]StatusCheckDTO, 0, len(checks))
	for _, check := range checks {
		out = append(out, toStatusCheckDTO(check))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleHistoryStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	remote := conn.RemoteAddr().String()
	logrus.WithField("remote", remote).Info("history websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", remote).Info("history websocket closed")
			} else {
				logrus.WithError(err).Warn("history websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("request_id", RequestIDFromContext(c.Request.Context())).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
