// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/search"
)

// Ingestor schedules asynchronous document ingestion.
type Ingestor interface {
	Submit(key, owner string) error
}

// Answerer runs hybrid retrieval and answer synthesis.
type Answerer interface {
	Answer(ctx context.Context, req *core.QueryRequest) (*core.QueryResponse, error)
	Retrieve(ctx context.Context, req *core.QueryRequest) ([]core.Reference, error)
}

// DocumentLister reports stored documents and their ingestion status.
type DocumentLister interface {
	ListByOwner(ctx context.Context, owner string) ([]core.Document, error)
}

// Server is the HTTP boundary of the service.
type Server struct {
	ingestor Ingestor
	answerer Answerer
	lister   DocumentLister
	engine   *gin.Engine
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates the HTTP server and registers the v1 routes.
func NewServer(ingestor Ingestor, answerer Answerer, lister DocumentLister, opts ...Option) (*Server, error) {
	if ingestor == nil {
		return nil, ErrIngestorRequired
	}
	if answerer == nil {
		return nil, ErrAnswererRequired
	}
	if lister == nil {
		return nil, ErrListerRequired
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		ingestor: ingestor,
		answerer: answerer,
		lister:   lister,
		engine:   engine,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	v1 := engine.Group("/v1")
	v1.POST("/ingest", s.handleIngest)
	v1.POST("/query", s.handleQuery)
	v1.POST("/retrieve", s.handleRetrieve)
	v1.GET("/documents", s.handleListDocuments)
	engine.GET("/healthz", s.handleHealth)

	return s, nil
}

// Handler exposes the router for serving and for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on the given address until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.engine.Run(addr)
}

type ingestRequest struct {
	Key   string `json:"key" binding:"required"`
	Owner string `json:"owner"`
}

// handleIngest accepts a document for asynchronous processing. The client
// tracks progress through document status, so success here only means the
// work was scheduled.
func (s *Server) handleIngest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	owner := req.Owner
	if owner == "" {
		derived, ok := core.OwnerFromKey(req.Key)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required when not derivable from key"})
			return
		}
		owner = derived
	}

	if err := s.ingestor.Submit(req.Key, owner); err != nil {
		s.logger.Error("failed to schedule ingestion", "key", req.Key, "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ingestion unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"key": req.Key, "owner": owner, "status": core.StatusIndexing})
}

// handleQuery answers a question from the owner's indexed material.
// Internal failures never leak details to the client.
func (s *Server) handleQuery(c *gin.Context) {
	req, ok := s.bindQuery(c)
	if !ok {
		return
	}

	response, err := s.answerer.Answer(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("query failed", "owner", req.Owner, "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "query unavailable"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// handleRetrieve returns grounding references without answer synthesis.
func (s *Server) handleRetrieve(c *gin.Context) {
	req, ok := s.bindQuery(c)
	if !ok {
		return
	}

	references, err := s.answerer.Retrieve(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("retrieval failed", "owner", req.Owner, "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "retrieval unavailable"})
		return
	}
	if references == nil {
		references = []core.Reference{}
	}

	c.JSON(http.StatusOK, gin.H{"references": references})
}

// handleListDocuments lists the owner's documents with ingestion status.
func (s *Server) handleListDocuments(c *gin.Context) {
	owner := strings.TrimSpace(c.Query("owner"))
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner query parameter is required"})
		return
	}

	docs, err := s.lister.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		s.logger.Error("document listing failed", "owner", owner, "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing unavailable"})
		return
	}
	if docs == nil {
		docs = []core.Document{}
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindQuery parses and validates the shared query/retrieve request body.
func (s *Server) bindQuery(c *gin.Context) (*core.QueryRequest, bool) {
	var req core.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, false
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return nil, false
	}
	if strings.TrimSpace(req.Owner) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return nil, false
	}
	return &req, true
}

var _ Answerer = (*search.Searcher)(nil)
