// Package mockserver is an in-memory implementation of the quiz backend
// HTTP API. It backs offline play, demos and gateway integration tests.
package mockserver

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config controls the mock backend.
type Config struct {
	Addr string
	// APIKey, when set, must be sent in X-API-Key.
	APIKey string
	// TotalQuestions caps every session.
	TotalQuestions int
	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit float64
	Burst     int
	// Seed makes question selection reproducible.
	Seed uint64
}

func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:8000",
		TotalQuestions: 10,
		RateLimit:      20,
		Burst:          40,
		Seed:           uint64(time.Now().UnixNano()),
	}
}

// Server is the mock backend. It is safe for concurrent use.
type Server struct {
	cfg     Config
	bank    *Bank
	bkt     BKT
	advisor Advisor
	logger  *zap.Logger
	metrics *metrics
	engine  *gin.Engine
	now     func() time.Time

	mu       sync.Mutex
	rng      *rand.Rand
	sessions map[string]*quizSession
	order    []*quizSession
}

// New builds a Server. A nil advisor uses TemplateAdvisor and a nil logger
// discards output.
func New(cfg Config, bank *Bank, advisor Advisor, logger *zap.Logger) *Server {
	if cfg.TotalQuestions <= 0 {
		cfg.TotalQuestions = DefaultConfig().TotalQuestions
	}
	if advisor == nil {
		advisor = TemplateAdvisor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		bank:     bank,
		bkt:      DefaultBKT(),
		advisor:  advisor,
		logger:   logger.Named("mockserver"),
		metrics:  newMetrics(),
		now:      time.Now,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		sessions: make(map[string]*quizSession),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), s.metrics.middleware())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) })
	r.GET("/metrics", s.metrics.handler())

	api := r.Group("/api", requireAPIKey(s.cfg.APIKey))
	if s.cfg.RateLimit > 0 {
		api.Use(newClientLimiter(s.cfg.RateLimit, s.cfg.Burst).middleware())
	}
	api.GET("/subjects", s.listSubjects)

	assessment := api.Group("/assessment")
	assessment.POST("/start", s.startSession)
	assessment.POST("/next-question", s.nextQuestion)
	assessment.POST("/submit-answer", s.submitAnswer)
	assessment.POST("/complete", s.completeSession)

	api.GET("/learning-path/recommendations", s.recommendations)
	api.GET("/learning-path/last-quiz", s.lastQuiz)
	api.GET("/learning-path/:session_id", s.learningPath)
	api.GET("/analytics/subject/:subject", s.subjectAnalytics)
	return r
}

// Handler exposes the routes, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock backend listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("mock backend stopped")
	return nil
}
