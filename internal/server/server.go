package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/weeklyeats/internal/config"
	"github.com/dukerupert/weeklyeats/internal/events"
	"github.com/dukerupert/weeklyeats/internal/grocery"
	"github.com/dukerupert/weeklyeats/internal/handler"
	"github.com/dukerupert/weeklyeats/internal/middleware"
	"github.com/dukerupert/weeklyeats/internal/store"
	ws "github.com/dukerupert/weeklyeats/internal/websocket"
)

type Server struct {
	db          *sql.DB
	bus         *events.Bus
	groceryH    *handler.GroceryHandler
	mealPlanH   *handler.MealPlanHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New wires stores, the grocery service and handlers around db. classifier
// may be nil.
func New(db *sql.DB, classifier grocery.Classifier, cfg *config.Config, logger *slog.Logger) *Server {
	bus := events.NewBus(logger.With("component", "events"))

	groceryStore := store.NewGroceryStore(db)
	mealPlanStore := store.NewMealPlanStore(db)

	assembler := grocery.NewAssembler(groceryStore, classifier, cfg.Classifier.Timeout, logger.With("component", "assembler"))
	svc := grocery.NewService(groceryStore, mealPlanStore, assembler, bus, logger.With("component", "grocery"))

	return &Server{
		db:          db,
		bus:         bus,
		groceryH:    handler.NewGroceryHandler(svc, logger.With("component", "grocery_handler")),
		mealPlanH:   handler.NewMealPlanHandler(svc, logger.With("component", "meal_plan_handler")),
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
		logger:      logger,
	}
}

// Bus returns the event bus so it can be closed on shutdown.
func (s *Server) Bus() *events.Bus {
	return s.bus
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.bus, s.logger.With("component", "websocket")))

	// Grocery API routes
	mux.HandleFunc("GET /api/grocery", s.groceryH.GetList)
	mux.HandleFunc("POST /api/grocery/items", s.rateLimitedHandler(s.groceryH.AddItems))
	mux.HandleFunc("PATCH /api/grocery/items/{id}", s.rateLimitedHandler(s.groceryH.ToggleItem))
	mux.HandleFunc("DELETE /api/grocery/items/{id}", s.rateLimitedHandler(s.groceryH.DeleteItem))
	mux.HandleFunc("POST /api/grocery/clear", s.rateLimitedHandler(s.groceryH.Clear))

	// Meal plan API routes
	mux.HandleFunc("POST /api/meal-plans", s.rateLimitedHandler(s.mealPlanH.Create))
	mux.HandleFunc("GET /api/meal-plans/{week}", s.mealPlanH.Get)
	mux.HandleFunc("POST /api/meal-plans/{id}/grocery-list", s.rateLimitedHandler(s.mealPlanH.RegenerateList))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
