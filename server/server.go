// Package server is the shell's local HTTP bridge: JSON commands, the boot
// event push and the resource-fetch protocol on one loopback listener.
package server

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/config"
	"github.com/brettbedarf/imgnav/internal/util"
	"github.com/brettbedarf/imgnav/protocol"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Subscriber hands out boot payload streams; implemented by [events.Bus]
type Subscriber interface {
	Subscribe() (string, <-chan imgnav.BootPayload)
	Unsubscribe(id string)
}

// Server wires an [imgnav.Navigator] to a fiber app
type Server struct {
	cfg    *config.Config
	nav    imgnav.Navigator
	events Subscriber
	app    *fiber.App

	mu      sync.Mutex
	started bool
	addr    net.Addr
	closing chan struct{} // closed on shutdown to end event pushes
	once    sync.Once
}

// New creates a Server with its routes registered. events may be nil, in
// which case /events is not served.
func New(cfg *config.Config, nav imgnav.Navigator, events Subscriber) *Server {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	s := &Server{
		cfg:     cfg,
		nav:     nav,
		events:  events,
		closing: make(chan struct{}),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             maxCommandBody,
		ErrorHandler:          handleError,
	})
	s.app.Server().Logger = util.NewLogLogger("HTTPServer", util.WarnLevel)

	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(requestLogger)
	s.app.Use(cors.New())

	s.routes()

	// Mounted with and without the trailing slash so neither form redirects
	resources := adaptor.HTTPHandler(protocol.NewHandler(nav))
	s.app.All(cfg.ResourcePrefix+"*", resources)
	s.app.All(strings.TrimSuffix(cfg.ResourcePrefix, "/"), resources)
	return s
}

// App returns the underlying fiber app, e.g. for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// listen binds addr once per Server
func (s *Server) listen(addr string) (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, errors.New("server already started")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.started = true
	s.addr = ln.Addr()

	logger := util.GetLogger("Server")
	logger.Info().Str("addr", ln.Addr().String()).
		Str("resources", s.cfg.ResourcePrefix).Msg("Listening")
	return ln, nil
}

// Serve listens on addr and blocks until the server is shut down. It
// returns nil after a clean [Server.Shutdown].
func (s *Server) Serve(addr string) error {
	ln, err := s.listen(addr)
	if err != nil {
		return err
	}
	return s.app.Listener(ln)
}

// ServeAsync binds addr before returning so [Server.Addr] is usable
// immediately. The channel yields the result of serving and is then closed.
func (s *Server) ServeAsync(addr string) <-chan error {
	done := make(chan error, 1)

	ln, err := s.listen(addr)
	if err != nil {
		done <- err
		close(done)
		return done
	}
	go func() {
		done <- s.app.Listener(ln)
		close(done)
	}()

	return done
}

// Addr returns the bound address, or nil before serving
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Shutdown ends event pushes and gracefully stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil
	}
	s.once.Do(func() { close(s.closing) })
	return s.app.ShutdownWithContext(ctx)
}
