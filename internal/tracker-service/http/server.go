package httpapi

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/radieske/bet-tracker/internal/tracker-service/dto"
	"github.com/radieske/bet-tracker/internal/tracker-service/session"
	"github.com/radieske/bet-tracker/internal/tracker-service/ws"
)

// Server expõe as três abas do dashboard (Tracker, Add Bet, Calendar) como API REST
type Server struct {
	log     *zap.Logger
	sess    *session.Session
	hub     *ws.Hub
	origins []string

	// now define o "hoje" das janelas de profit e do calendário, no fuso local do servidor
	now func() time.Time
}

func NewServer(log *zap.Logger, sess *session.Session, origins []string) *Server {
	s := &Server{
		log:     log,
		sess:    sess,
		origins: origins,
		now:     time.Now,
	}
	s.hub = ws.NewHub(log, s.allowOrigin)
	s.hub.Snapshot = s.summaryMsg

	// Cada mutação confirmada empurra o resumo novo para os dashboards abertos
	sess.OnChange(func(kind string) {
		if msg, ok := s.summaryMsg(); ok {
			s.hub.Broadcast(msg)
		}
	})
	return s
}

// Router retorna o roteador HTTP com os endpoints do dashboard
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)
	r.Get("/ws", s.hub.HandleWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(15 * time.Second))

		r.Get("/tracker", s.tracker)                  // aba Tracker
		r.Post("/bets", s.addBet)                     // aba Add Bet
		r.Put("/bets/{index}/result", s.updateResult) // editar resultado
		r.Delete("/bets/{index}", s.deleteBet)        // excluir aposta
		r.Get("/calendar", s.calendar)                // aba Calendar
		r.Get("/settings", s.getSettings)             // valor por unit
		r.Put("/settings", s.putSettings)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(t0)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) allowOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.origins, "*") {
		return true
	}
	return slices.Contains(s.origins, origin)
}

func (s *Server) summaryMsg() (ws.ServerMsg, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sum, err := s.sess.Summary(ctx, s.now())
	if err != nil {
		s.log.Warn("ws summary", zap.Error(err))
		return ws.ServerMsg{}, false
	}
	return ws.ServerMsg{Type: "summary", Payload: dto.NewSummaryView(sum)}, true
}
