// Package callback serves the route the bank consent page returns to.
package callback

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dyike/NamaaGo/internal/models"
)

const Path = "/auth/callback"

// Result is what the consent flow reported when it returned to us.
type Result struct {
	IntentID string
	Status   string
	Error    string
}

// State maps the callback parameters onto the linking state machine.
func (r Result) State() models.LinkState {
	if r.Error != "" {
		return models.LinkFailed
	}
	switch strings.ToLower(r.Status) {
	case "success", "succeeded", "confirmed", "completed", "authorized", "authorised", "ok":
		return models.LinkConfirmed
	default:
		return models.LinkFailed
	}
}

// Server is a local HTTP listener for the consent redirect.
type Server struct {
	addr string
	log  logrus.FieldLogger

	mu       sync.Mutex
	srv      *http.Server
	baseURL  string
	received []Result
	notify   chan struct{}
}

func NewServer(addr string, log logrus.FieldLogger) *Server {
	return &Server{
		addr:   addr,
		log:    log,
		notify: make(chan struct{}),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(Path, s.handleCallback).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	return r
}

// Start listens on the configured address. It is a no-op when already running.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.baseURL = "http://" + ln.Addr().String()
	s.srv = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("callback server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.WithField("addr", s.baseURL).Debug("callback server listening")
	return nil
}

// RedirectURL is the callback address handed to the backend. Before Start
// it is derived from the configured address.
func (s *Server) RedirectURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := s.baseURL
	if base == "" {
		base = "http://" + s.addr
	}
	return base + Path
}

// Reported is false for a bare hit on the callback route, such as a
// reloaded consent tab, which carries neither a status nor an error.
func (r Result) Reported() bool {
	return r.Status != "" || r.Error != ""
}

// Reset drops callbacks received before a new attempt starts.
func (s *Server) Reset() {
	s.mu.Lock()
	s.received = nil
	s.mu.Unlock()
}

// Wait blocks until a callback for intentID arrives. Only an empty
// intentID accepts a callback that names no intent.
func (s *Server) Wait(ctx context.Context, intentID string) (Result, error) {
	for {
		s.mu.Lock()
		for i, res := range s.received {
			if intentID == "" || res.IntentID == intentID {
				s.received = append(s.received[:i], s.received[i+1:]...)
				s.mu.Unlock()
				return res, nil
			}
		}
		notify := s.notify
		s.mu.Unlock()

		select {
		case <-notify:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
}

func (s *Server) publish(res Result) {
	s.mu.Lock()
	s.received = append(s.received, res)
	close(s.notify)
	s.notify = make(chan struct{})
	s.mu.Unlock()
}

var pageTmpl = template.Must(template.New("callback").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>Nama'a</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em">
<h2>{{.Title}}</h2>
<p>{{.Body}}</p>
</body></html>
`))

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := Result{
		IntentID: firstNonEmpty(q.Get("intentId"), q.Get("intent_id")),
		Status:   q.Get("status"),
		Error:    firstNonEmpty(q.Get("error"), q.Get("error_description")),
	}
	s.log.WithFields(logrus.Fields{
		"intent_id": res.IntentID,
		"status":    res.Status,
		"error":     res.Error,
	}).Info("bank consent callback received")

	if res.Reported() {
		s.publish(res)
	}

	page := struct{ Title, Body string }{
		Title: "Bank account connected",
		Body:  "You can close this window and return to the terminal.",
	}
	if res.State() != models.LinkConfirmed {
		page.Title = "Bank connection was not completed"
		page.Body = "Return to the terminal to try again."
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, page); err != nil {
		s.log.WithError(err).Warn("render callback page")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
