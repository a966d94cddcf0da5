// Package webhook exposes the message handler over HTTP. JSON requests
// (e.g. from a phone shortcut) get a plain text reply; form-encoded requests
// from an SMS gateway get a TwiML envelope.
package webhook

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"calorie-log/internal/cal"
)

// Responder turns an inbound message into the reply text.
type Responder interface {
	Handle(ctx context.Context, text string) string
}

// Server routes webhook requests to a Responder.
type Server struct {
	engine    *gin.Engine
	responder Responder
	ids       cal.IDGenerator
	logger    cal.Logger
}

// NewServer creates a Server answering POST on path (and on "/") plus
// GET /healthz.
func NewServer(responder Responder, path string, ids cal.IDGenerator, logger cal.Logger) *Server {
	s := &Server{
		engine:    gin.New(),
		responder: responder,
		ids:       ids,
		logger:    logger,
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if path == "" {
		path = "/"
	}
	s.engine.POST(path, s.handleMessage)
	if path != "/" {
		s.engine.POST("/", s.handleMessage)
	}
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully,
// letting in-flight estimates finish for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

type jsonMessage struct {
	Food string `json:"food"`
}

// twimlResponse is the TwiML envelope for a single SMS reply.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func (s *Server) handleMessage(c *gin.Context) {
	ctx := c.Request.Context()

	if strings.Contains(c.ContentType(), "json") {
		var msg jsonMessage
		if err := c.ShouldBindJSON(&msg); err != nil {
			s.logger.Warn("bad request body", "request_id", cal.RequestID(ctx), "error", err)
			c.String(http.StatusBadRequest, "invalid JSON body")
			return
		}
		c.String(http.StatusOK, s.responder.Handle(ctx, msg.Food))
		return
	}

	reply := s.responder.Handle(ctx, c.PostForm("Body"))
	body, err := encodeTwiML(reply)
	if err != nil {
		s.logger.Error("encoding reply", "request_id", cal.RequestID(ctx), "error", err)
		c.String(http.StatusInternalServerError, "failed to encode reply")
		return
	}
	c.Data(http.StatusOK, "text/xml; charset=utf-8", body)
}

func encodeTwiML(reply string) ([]byte, error) {
	out, err := xml.Marshal(twimlResponse{Message: reply})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// requestLogger tags each request with a fresh id and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := s.ids.New()
		c.Request = c.Request.WithContext(cal.WithRequestID(c.Request.Context(), id))
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		s.logger.Info("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
}
