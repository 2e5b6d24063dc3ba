package control

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/textmarquee/marquee"
)

// Server exposes running marquees over HTTP.
type Server struct {
	addr       string
	marquees   map[string]*marquee.Marquee
	names      []string
	router     *mux.Router
	httpServer *http.Server
}

func New(addr string, marquees map[string]*marquee.Marquee) *Server {
	s := &Server{
		addr:     addr,
		marquees: marquees,
		router:   mux.NewRouter(),
	}
	for name := range marquees {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(logRequests)
	s.router.HandleFunc("/api/marquees", s.handleList).Methods("GET")
	s.router.HandleFunc("/api/marquees/{name}", s.handleGet).Methods("GET")
	s.router.HandleFunc("/api/marquees/{name}/text", s.handleText).Methods("PUT")
	s.router.HandleFunc("/api/marquees/{name}/direction", s.handleDirection).Methods("PUT")
	s.router.HandleFunc("/api/marquees/{name}/interval", s.handleInterval).Methods("PUT")
	s.router.HandleFunc("/api/marquees/{name}/step", s.handleStep).Methods("PUT")
	s.router.HandleFunc("/api/marquees/{name}/start", s.handleStart).Methods("POST")
	s.router.HandleFunc("/api/marquees/{name}/stop", s.handleStop).Methods("POST")
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			log.Debugf("control API shutdown: %v", err)
		}
	}()

	log.Infof("Starting control API on %s", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("control request")
	})
}
