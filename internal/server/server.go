package server

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/proctorkit/examclock/internal/countdown"
	"github.com/proctorkit/examclock/internal/session"
	"github.com/proctorkit/examclock/pkg/http"
	"github.com/proctorkit/examclock/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

type Server struct {
	cfg      Config
	log      zerolog.Logger
	session  *session.Session
	server   *http.Server
	errCh    chan error
	shutdown sync.Once
}

func NewServer(cfg Config, log zerolog.Logger) (*Server, error) {
	if err := cfg.Clock.Validate(); err != nil {
		return nil, err
	}
	clock := session.NewSession(cfg.Clock, countdown.SystemClock)
	go clock.Start()

	handler := NewHandler(log, render.New(), clock)
	r := NewRouter(cfg.Router)
	r.Use(middleware.RequestLogger(log))
	r = AddRoutes(r, handler)
	return &Server{
		cfg:     cfg,
		log:     log,
		session: clock,
		server:  http.NewServer(cfg.Server, r, log),
		errCh:   make(chan error),
	}, nil
}

func (s *Server) Start() {
	go s.server.Start(s.errCh)
	for err := range s.errCh {
		if err != nil {
			s.log.Error().Caller().Err(err).Msg("fatal error")
			s.Shutdown(true)
		}
	}
}

func (s *Server) Shutdown(errored bool) {
	s.shutdown.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info().Msg("attempting graceful shutdown")
		graceful := make(chan bool)
		go func(graceful <-chan bool) {
			for {
				select {
				case <-ctx.Done():
					s.log.Panic().Msg("timeout so shutdown ungracefully")
				case <-graceful:
					return
				}
			}
		}(graceful)
		// stop both clock cadences before the listener so no tick can
		// race the teardown
		s.session.Close()
		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Error().Caller().Err(err).Msg("failed to shutdown server gracefully")
		}
		close(s.errCh)
		close(graceful)
		if errored {
			s.log.Info().Msg("shutdown gracefully but error detected")
			os.Exit(1)
		}
	})
}
