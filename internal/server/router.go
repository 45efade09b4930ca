package server

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/proctorkit/examclock/pkg/http"
	"github.com/urfave/negroni"
)

func NewRouter(cfg http.RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(time.Duration(cfg.TimeoutSec) * time.Second))
	r.Use(httprate.LimitAll(cfg.RequestPerSecLimit, time.Second))
	if !cfg.DisableCors {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: true,
		}))
	}
	return r
}

func AddRoutes(r *chi.Mux, handler *Handler) *chi.Mux {
	r.Route("/clock", func(r chi.Router) {
		r.Post("/start", negroni.New(negroni.WrapFunc(handler.StartClock)).ServeHTTP)
		r.Post("/pause", negroni.New(negroni.WrapFunc(handler.PauseClock)).ServeHTTP)
		r.Post("/reset", negroni.New(negroni.WrapFunc(handler.ResetClock)).ServeHTTP)
		r.Post("/extra-time", negroni.New(negroni.WrapFunc(handler.SetExtraTime)).ServeHTTP)
		r.Post("/autostart/arm", negroni.New(negroni.WrapFunc(handler.ArmAutoStart)).ServeHTTP)
		r.Post("/autostart/disarm", negroni.New(negroni.WrapFunc(handler.DisarmAutoStart)).ServeHTTP)
		r.Get("/snapshot", negroni.New(negroni.WrapFunc(handler.GetSnapshot)).ServeHTTP)
		r.Get("/watch", negroni.New(negroni.WrapFunc(handler.Watch)).ServeHTTP)
	})
	r.Get("/health", negroni.New(negroni.WrapFunc(handler.Health)).ServeHTTP)
	return r
}
