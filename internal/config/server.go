package config

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

// Server defines the server struct
type Server struct {
	router *mux.Router
}

type ServerConfigOption func(server *Server)

// WithMiddleware registers router level middleware, applied to every route
func WithMiddleware(mw ...mux.MiddlewareFunc) ServerConfigOption {
	return func(server *Server) {
		server.router.Use(mw...)
	}
}

// NewServer creates a new server
func NewServer(options ...ServerConfigOption) *Server {
	s := &Server{
		router: mux.NewRouter().StrictSlash(true),
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

func (s *Server) WithRoutes(basePath string, routes ...Route) *Server {
	r := s.router
	if basePath != "" {
		r = s.router.PathPrefix(basePath).Subrouter()
	}
	for _, route := range routes {
		r.HandleFunc(route.Path, route.Handler).Methods(route.Method)
		log.WithFields(map[string]interface{}{
			"method": route.Method,
			"path":   fmt.Sprintf("%s%s", basePath, route.Path),
		}).Infof("registered path")
	}
	return s
}

// Handler returns the routes wrapped with CORS and panic recovery
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{
			"Access-Control-Allow-Origin", "Content-Type", "Origin", "Accept-Encoding", "Accept-Language", "Authorization",
			"X-Api-Base-Url", "X-Api-Key", "X-Api-Key-Header", "X-Company-Id",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS", "DELETE"},
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
	})
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(c.Handler(s.router))
}

// Start the server on the defined port
func (s *Server) Start(addr string, port int) {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%v", addr, port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Infof("listening on %s", srv.Addr)
	panic(srv.ListenAndServe())
}
