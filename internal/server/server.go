// Package server implements an HTTP endpoint for expression evaluation.
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/srcalc"
	"github.com/npillmayer/srcalc/eval"
	"github.com/npillmayer/srcalc/internal/display"
)

// T traces to the core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// MaxExprLen is the longest expression accepted, in bytes.
const MaxExprLen = 4096

// Server is the evaluation API server.
type Server struct {
	app    *fiber.App
	ev     *eval.Evaluator
	format *display.Formatter
}

// New creates a new API server. Results are rendered with format in addition
// to their plain value; format may be nil.
func New(ev *eval.Evaluator, format *display.Formatter) *Server {
	srv := &Server{
		ev:     ev,
		format: format,
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		BodyLimit:             4 * MaxExprLen,
	})
	app.Get("/v1/eval", srv.evalQuery)
	app.Post("/v1/eval", srv.evalBody)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	T().Infof("server: listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// --- Handlers --------------------------------------------------------------

type evalRequest struct {
	Expr string `json:"expr"`
}

type evalResponse struct {
	Expr    string `json:"expr"`
	Value   int    `json:"value"`
	Display string `json:"display"`
}

func (s *Server) evalQuery(c *fiber.Ctx) error {
	return s.evaluate(c, c.Query("expr"))
}

func (s *Server) evalBody(c *fiber.Ctx) error {
	var req evalRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT",
			fmt.Sprintf("invalid request body: %v", err), nil)
	}
	return s.evaluate(c, req.Expr)
}

func (s *Server) evaluate(c *fiber.Ctx, expr string) error {
	if len(expr) > MaxExprLen {
		return errorResponse(c, fiber.StatusRequestEntityTooLarge, "INVALID_ARGUMENT",
			fmt.Sprintf("expression longer than %d bytes", MaxExprLen), nil)
	}
	value, err := s.ev.Evaluate(c.UserContext(), expr)
	if err != nil {
		T().Infof("server: %q: %v", expr, err)
		var f *srcalc.Fault
		errors.As(err, &f)
		switch {
		case errors.Is(err, srcalc.ErrMalformedInput):
			return errorResponse(c, fiber.StatusBadRequest, "MALFORMED_INPUT", err.Error(), f)
		case errors.Is(err, srcalc.ErrOverflow):
			return errorResponse(c, fiber.StatusUnprocessableEntity, "OUT_OF_RANGE", err.Error(), f)
		case errors.Is(err, eval.ErrClosed):
			return errorResponse(c, fiber.StatusServiceUnavailable, "UNAVAILABLE", err.Error(), f)
		}
		T().Errorf("server: %q: %v", expr, err)
		return errorResponse(c, fiber.StatusInternalServerError, "INTERNAL", err.Error(), f)
	}
	return c.JSON(evalResponse{
		Expr:    expr,
		Value:   value,
		Display: s.format.Format(value),
	})
}

func errorResponse(c *fiber.Ctx, code int, status, msg string, f *srcalc.Fault) error {
	body := fiber.Map{
		"code":    code,
		"message": msg,
		"status":  status,
	}
	if f != nil && f.Token != nil {
		body["position"] = f.Token.Pos
	}
	if f != nil && len(f.Expected) > 0 {
		expected := make([]string, len(f.Expected))
		for i, k := range f.Expected {
			expected[i] = k.String()
		}
		body["expected"] = expected
	}
	return c.Status(code).JSON(fiber.Map{"error": body})
}
