package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/safe-ui/safe_assets/internal/config"
	"github.com/safe-ui/safe_assets/internal/routes"
)

// Server wraps the Fiber application and the view session sweeper.
type Server struct {
	app  *fiber.App
	deps routes.Deps

	stopSweep context.CancelFunc
	swept     chan struct{}
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(deps routes.Deps) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      deps.Cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler,
	})

	if err := routes.Setup(app, deps); err != nil {
		return nil, err
	}

	return &Server{app: app, deps: deps}, nil
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen starts the session sweeper and then the HTTP server.
func (s *Server) Listen() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopSweep = cancel
	s.swept = make(chan struct{})
	go func() {
		defer close(s.swept)
		s.deps.Sessions.Run(ctx, sweepInterval(s.deps.Cfg))
	}()
	return s.app.Listen(s.deps.Cfg.Address())
}

// Shutdown gracefully stops the HTTP server and unmounts live view sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	if s.stopSweep != nil {
		s.stopSweep()
		select {
		case <-s.swept:
		case <-ctx.Done():
		}
	}
	return err
}

func sweepInterval(cfg config.Config) time.Duration {
	if cfg.SessionTTL <= 0 {
		return time.Minute
	}
	if d := cfg.SessionTTL / 4; d > time.Second {
		return d
	}
	return time.Second
}

// errorHandler renders every error as a JSON body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":      err.Error(),
		"request_id": c.Locals("X-Request-ID"),
	})
}
