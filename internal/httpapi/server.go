package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/prayertimes/internal/domain"
	apimw "github.com/hamed0406/prayertimes/internal/httpapi/middleware"
	"github.com/hamed0406/prayertimes/internal/prayer"
)

// Cache is the part of the prayer cache the HTTP surface reads.
type Cache interface {
	PrayerTimes(ctx context.Context, date domain.Date) domain.Times
	Lookup(ctx context.Context, date domain.Date) *domain.PrayerDay
	UpdatePrayerTimes() <-chan prayer.UpdateResult
	Polling() bool
	Fetching() bool
}

type Server struct {
	Logger   *zap.Logger
	Cache    Cache
	Location *time.Location

	now func() time.Time
}

func NewServer(l *zap.Logger, c Cache, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	return &Server{Logger: l, Cache: c, Location: loc, now: time.Now}
}

// Router builds the chi router. publicRPM <= 0 disables rate limiting.
func (s *Server) Router(publicRPM, publicBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(publicRPM, publicBurst))
		r.Get("/prayer-times", s.handleGetTimes)
		r.Get("/prayer-times/next", s.handleNext)
		r.Post("/prayer-times/refresh", s.handleRefresh)
		r.Get("/status", s.handleStatus)
	})

	return r
}

func (s *Server) today() domain.Date {
	return domain.DateOf(s.now().In(s.Location))
}

type timesResponse struct {
	Date        domain.Date    `json:"date"`
	Placeholder bool           `json:"placeholder"`
	CreatedAt   *time.Time     `json:"created_at,omitempty"`
	Times       []domain.Entry `json:"times"`
}

func (s *Server) handleGetTimes(w http.ResponseWriter, r *http.Request) {
	date := s.today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	resp := timesResponse{Date: date}
	if day := s.Cache.Lookup(r.Context(), date); day != nil {
		created := day.CreatedAt.UTC()
		resp.CreatedAt = &created
		resp.Times = day.Times.Entries()
		resp.Placeholder = day.Times.IsPlaceholder()
	} else {
		// miss: renders the sentinel row and lets the cache arm polling
		t := s.Cache.PrayerTimes(r.Context(), date)
		resp.Times = t.Entries()
		resp.Placeholder = t.IsPlaceholder()
	}
	writeJSON(w, http.StatusOK, resp)
}

type nextResponse struct {
	Name domain.Prayer `json:"name"`
	Time string        `json:"time"`
	At   time.Time     `json:"at"`
	In   string        `json:"in"`
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	now := s.now().In(s.Location)
	times := s.Cache.PrayerTimes(r.Context(), domain.DateOf(now))
	up, ok := domain.NextPrayer(now, times)
	if !ok {
		writeError(w, http.StatusNotFound, "prayer times not available yet")
		return
	}
	writeJSON(w, http.StatusOK, nextResponse{Name: up.Prayer, Time: up.Time, At: up.At, In: up.Remaining()})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.Cache.UpdatePrayerTimes()
	s.Logger.Info("refresh_requested", zap.String("remote", r.RemoteAddr))
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"date":     s.today(),
		"polling":  s.Cache.Polling(),
		"fetching": s.Cache.Fetching(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
