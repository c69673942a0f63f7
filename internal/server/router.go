// Package server wires the HTTP surface: CRUD routes per collection, the
// read-only sequencer endpoints, login, and the realtime channel.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/corarez/salt-factory-app-sub000/internal/config"
	"github.com/corarez/salt-factory-app-sub000/internal/handlers"
	"github.com/corarez/salt-factory-app-sub000/internal/httpx"
	"github.com/corarez/salt-factory-app-sub000/internal/realtime"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, hub *realtime.Hub, cfg config.Config, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Health endpoints ---
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := handlers.NewAuthHandler(db)
	r.Post("/api/login", auth.Login)

	ah := handlers.NewArrivalHandler(db, hub)
	r.Route("/api/arrived", func(r chi.Router) {
		r.Get("/", ah.List)
		r.Post("/", ah.Create)
		r.Put("/{id}", ah.Update)
		r.Delete("/{id}", ah.Delete)
	})

	ph := handlers.NewProductionHandler(db, hub)
	r.Route("/api/produced", func(r chi.Router) {
		r.Get("/", ph.List)
		r.Post("/", ph.Create)
		r.Put("/{id}", ph.Update)
		r.Delete("/{id}", ph.Delete)
	})

	sh := handlers.NewSaleHandler(db, hub)
	r.Route("/api/sold", func(r chi.Router) {
		r.Get("/", sh.List)
		r.Post("/", sh.Create)
		r.Get("/next-invoice-id", sh.NextInvoiceID)
		r.Get("/invoice-ids", sh.InvoiceIDs)
		r.Put("/{id}", sh.Update)
		r.Delete("/{id}", sh.Delete)
	})

	th := handlers.NewTransactionHandler(db, hub)
	r.Route("/api/transactions", func(r chi.Router) {
		r.Get("/", th.List)
		r.Post("/", th.Create)
		r.Put("/{id}", th.Update)
		r.Delete("/{id}", th.Delete)
	})

	adh := handlers.NewAdminHandler(db, hub)
	r.Route("/api/admins", func(r chi.Router) {
		r.Get("/", adh.List)
		r.Post("/", adh.Create)
		r.Put("/password", adh.ChangePassword)
		r.Put("/{id}", adh.Update)
		r.Delete("/{id}", adh.Delete)
	})

	// Realtime channel: one connection per client, no replay on connect.
	r.Get("/ws", hub.Handle)

	return r
}

func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}
