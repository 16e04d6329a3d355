// Package server is a small HTTP status server reporting the bot's health and loaded addons.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/neushore/proxima/addon"
	"github.com/neushore/proxima/common"
	"github.com/neushore/proxima/common/log"
)

// Server serves the status API.
type Server struct {
	Registry *addon.Registry
	Start    time.Time

	http *http.Server
}

func New(registry *addon.Registry, start time.Time) *Server {
	s := &Server{
		Registry: registry,
		Start:    start,
	}
	s.http = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router returns the server's routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", s.health)
	r.Route("/addons", func(r chi.Router) {
		r.Get("/", s.addons)
		r.Get("/{name}", s.addon)
	})

	return r
}

// Listen starts serving on addr in the background.
func (s *Server) Listen(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %v", addr)
	}

	log.Infof("Status server listening at %v", lis.Addr())

	go func() {
		err := s.http.Serve(lis)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("serving status server: %v", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Addons  int    `json:"addons"`
	Failed  int    `json:"failed_addons"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:  "ok",
		Version: common.Version(),
		Uptime:  time.Since(s.Start).Round(time.Second).String(),
		Addons:  len(s.Registry.Loaded()),
		Failed:  len(s.Registry.Failed()),
	})
}

func (s *Server) addons(w http.ResponseWriter, r *http.Request) {
	all := s.Registry.All()

	infos := make([]addon.Info, 0, len(all))
	for _, a := range all {
		infos = append(infos, a.Info())
	}

	render.JSON(w, r, infos)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) addon(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	a, ok := s.Registry.Get(name)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: "addon not found"})
		return
	}

	render.JSON(w, r, a.Info())
}
