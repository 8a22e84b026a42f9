// Package web serves the sign-in routes and the session API with fiber.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/template/html/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/config"
	fiberlogger "github.com/authcore/authcore/internal/logger/adapter/fiber"
	"github.com/authcore/authcore/internal/web/handler"
	"github.com/authcore/authcore/internal/web/handler/oauth"
	sessionhandler "github.com/authcore/authcore/internal/web/handler/session"
	"github.com/authcore/authcore/internal/web/handler/signin"
	"github.com/authcore/authcore/internal/web/handler/signout"
	authmw "github.com/authcore/authcore/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the configured port and blocks until it stops.
func (s *Service) Start() error {
	addr := s.cfg.Webserver.Domain + ":" + strconv.Itoa(s.cfg.Webserver.Port)

	log.Info().Str("addr", addr).Msg("starting http server")

	err := s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: !s.cfg.DevMode})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err //nolint:wrapcheck
	}

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service and registers all routes.
func New(cfg *config.Config, deps *handler.Deps) (*Service, error) {
	if cfg == nil || deps == nil || deps.Projector == nil {
		return nil, handler.ErrNilDependency
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		if _, err := os.Stat("./internal/web/templates"); err == nil {
			templateEngine = html.New("./internal/web/templates", ".gohtml")
			templateEngine.ShouldReload = true

			log.Warn().Msg("dev mode enabled: using local filesystem for templates")
		}
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName(cfg),
			CaseSensitive:  true,
			Immutable:      true,
			Views:          templateEngine,
			ErrorHandler:   errorHandler,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(authmw.Session(cfg, deps.Projector))

	handlers := []handler.Service{
		&signin.Service{},
		&oauth.Service{},
		&sessionhandler.Service{},
		&signout.Service{},
	}

	for _, h := range handlers {
		if err := h.Init(app, cfg, deps); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	app.Get(handler.RootPath, authmw.RequireSession(cfg), func(c fiber.Ctx) error {
		return c.Redirect().Status(fiber.StatusFound).To(handler.SessionPath)
	})

	return service, nil
}

func (s *Service) checkAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("alive")
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(code).JSON(fiber.Map{"error": http.StatusText(code)})
}

func appName(cfg *config.Config) string {
	if cfg.Title != "" {
		return cfg.Title
	}

	return "authcore"
}
