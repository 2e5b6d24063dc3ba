package control

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/textmarquee/marquee"
)

const maxBody = 64 << 10

type MarqueeInfo struct {
	Name       string  `json:"name"`
	Text       string  `json:"text"`
	Window     string  `json:"window"`
	Direction  string  `json:"direction"`
	Interval   string  `json:"interval"`
	ScrollStep float64 `json:"scrollStep"`
	Ticks      int64   `json:"ticks"`
	Running    bool    `json:"running"`
	Cadence    string  `json:"cadence"`
	LastError  string  `json:"lastError,omitempty"`
}

func info(name string, m *marquee.Marquee) MarqueeInfo {
	i := MarqueeInfo{
		Name:       name,
		Text:       m.Text(),
		Window:     m.Window(),
		Direction:  m.Direction().String(),
		Interval:   m.Interval().String(),
		ScrollStep: m.ScrollStep(),
		Ticks:      m.Ticks(),
		Running:    m.Running(),
		Cadence:    m.Cadence().Round(time.Millisecond).String(),
	}
	if err := m.Err(); err != nil {
		i.LastError = err.Error()
	}
	return i
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	result := make([]MarqueeInfo, 0, len(s.names))
	for _, name := range s.names {
		result = append(result, info(name, s.marquees[name]))
	}
	writeJSON(w, result)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, info(name, m))
}

// handleText replaces text. Query mode=set restarts scrolling from the
// new text, default mode=update lets the old text scroll out first.
func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var err error
	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "update":
		err = m.UpdateText(body)
	case "set":
		err = m.SetText(body)
	default:
		http.Error(w, "unknown mode "+strconv.Quote(mode), http.StatusBadRequest)
		return
	}
	s.respond(w, name, m, err)
}

func (s *Server) handleDirection(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	d, err := marquee.ParseDirection(body)
	if err == nil {
		err = m.SetDirection(d)
	}
	s.respond(w, name, m, err)
}

func (s *Server) handleInterval(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.respond(w, name, m, m.SetInterval(d))
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	step, err := strconv.ParseFloat(strings.TrimSpace(body), 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.respond(w, name, m, m.SetScrollStep(step))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	m.Start()
	s.respond(w, name, m, nil)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	m.Stop()
	s.respond(w, name, m, nil)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, *marquee.Marquee, bool) {
	name := mux.Vars(r)["name"]
	m, ok := s.marquees[name]
	if !ok {
		http.Error(w, "Marquee not found", http.StatusNotFound)
		return name, nil, false
	}
	return name, m, true
}

func (s *Server) respond(w http.ResponseWriter, name string, m *marquee.Marquee, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, marquee.ErrInvalidConfiguration) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	log.Infof("Marquee %s updated", name)
	writeJSON(w, info(name, m))
}

func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return string(data), true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debugf("control API encode: %v", err)
	}
}
