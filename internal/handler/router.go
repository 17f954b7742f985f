package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custommiddleware "github.com/mmeshcher/habitquest-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса habitquest.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Get("/leaderboard", h.GetLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/auth/me", h.Me)
			r.Patch("/auth/username", h.SetUsername)
			r.Patch("/auth/push-token", h.SetPushToken)

			r.Get("/habits", h.GetHabits)
			r.Post("/habits", h.CreateHabit)
			r.Delete("/habits/{id}", h.DeleteHabit)
			r.Post("/habits/{id}/complete", h.CompleteHabit)

			r.Get("/stats", h.GetStats)
			r.Post("/shop/buy-shield", h.BuyShield)

			r.Group(func(r chi.Router) {
				r.Use(h.adminOnly)

				r.Get("/admin/stats", h.AdminStats)
				r.Get("/admin/users", h.AdminUsers)
				r.Get("/admin/logs", h.AdminLogs)
				r.Delete("/admin/users/{id}", h.AdminDeleteUser)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}

// adminOnly пропускает только администраторов.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := custommiddleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		user, err := h.service.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if !user.IsAdmin {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
