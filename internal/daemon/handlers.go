package daemon

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/p200/internal/chart"
	"github.com/theirongolddev/p200/internal/cli"
	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/tracker"
)

//go:embed web.html
var pageHTML string

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"percent": cli.FormatPercent,
	"share":   cli.FormatShare,
	"width":   func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) },
}).Parse(pageHTML))

type pageData struct {
	View   tracker.View
	Money  func(float64) string
	Footer *config.FooterConfig
	Year   int
	Week   int // explicitly requested week, 0 for the session view
}

// viewFor resolves the ?week= parameter into a view.
func (s *Service) viewFor(r *http.Request) (tracker.View, int, error) {
	q := r.URL.Query().Get("week")
	if q == "" {
		return s.tracker.View(), 0, nil
	}
	week, err := strconv.Atoi(q)
	if err != nil {
		return tracker.View{}, http.StatusBadRequest, fmt.Errorf("week %q is not a number", q)
	}
	v, err := s.tracker.ViewWeek(week)
	switch {
	case errors.Is(err, tracker.ErrWeekNotSelectable), errors.Is(err, tracker.ErrSelectionUnsupported):
		return tracker.View{}, http.StatusBadRequest, err
	case err != nil:
		return tracker.View{}, http.StatusInternalServerError, err
	}
	return v, 0, nil
}

func (s *Service) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	v, code, err := s.viewFor(r)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}

	money := cli.NewMoney(v.Campaign.Currency, v.Campaign.Locale)
	data := pageData{
		View:   v,
		Money:  money.Format,
		Footer: s.cfg.Footer,
		Year:   v.Now.Year(),
	}
	if r.URL.Query().Get("week") != "" {
		data.Week = v.ActiveWeek
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.log.Error("rendering page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) handleChart(w http.ResponseWriter, r *http.Request) {
	v, code, err := s.viewFor(r)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf, "svg", v, chart.Options{}); err != nil {
		s.log.Error("rendering chart", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleView(w http.ResponseWriter, r *http.Request) {
	v, code, err := s.viewFor(r)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}
	writeJSON(w, v)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(data, '\n'))
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
