package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spindon-server/src/handlers"
	"spindon-server/src/middleware"
)

func NewRouter(pool *pgxpool.Pool, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.MetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", handlers.Register(pool))
		r.Post("/auth/login", handlers.Login(pool))
		r.Get("/categories/popular", handlers.GetPopularCategories(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// User
			r.Get("/users/me", handlers.GetMe(pool))
			r.Put("/users/me", handlers.UpdateUser(pool))
			r.Delete("/users/me", handlers.DeleteUser(pool))
			r.Get("/users/me/level", handlers.GetUserLevel(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetCategories(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))

			// Spendings
			r.Post("/spending", handlers.CreateSpending(pool))
			r.Get("/spending", handlers.GetSpendings(pool))
			r.Get("/spending/statistics", handlers.GetSpendingStatistics(pool))
			r.Get("/spending/category-average/{category_id}", handlers.GetCategoryAverage(pool))
			r.Get("/spending/{spending_id}", handlers.GetSpendingByID(pool))
			r.Put("/spending/{spending_id}", handlers.UpdateSpending(pool))
			r.Delete("/spending/{spending_id}", handlers.DeleteSpending(pool))

			// Goals
			r.Post("/goals/spending", handlers.CreateSpendingGoal(pool))
			r.Post("/goals/category/{category_id}", handlers.CreateCategoryGoal(pool))
			r.Get("/goals", handlers.GetGoals(pool))
			r.Get("/goals/progress", handlers.GetGoalProgress(pool))
			r.Get("/goals/user", handlers.GetUserGoal(pool))
			r.Put("/goals/user", handlers.UpsertUserGoal(pool))

			// Incomes
			r.Post("/incomes", handlers.CreateIncome(pool))
			r.Get("/incomes", handlers.GetIncomes(pool))
			r.Put("/incomes/{income_id}", handlers.UpdateIncome(pool))
			r.Delete("/incomes/{income_id}", handlers.DeleteIncome(pool))
			r.Get("/incomes/balance", handlers.GetMonthlyBalance(pool))

			// Payment methods
			r.Post("/payment-methods", handlers.CreatePaymentMethod(pool))
			r.Get("/payment-methods", handlers.GetPaymentMethods(pool))
			r.Put("/payment-methods/{payment_method_id}", handlers.UpdatePaymentMethod(pool))
			r.Delete("/payment-methods/{payment_method_id}", handlers.DeletePaymentMethod(pool))

			// Daily status
			r.Post("/status/no-spending", handlers.RecordNoSpendingDay(pool))
			r.Get("/status", handlers.GetMonthlyStatuses(pool))
			r.Get("/status/stats", handlers.GetMonthlyGoalStats(pool))
			r.Get("/status/consecutive", handlers.GetConsecutiveRecords(pool))
			r.Get("/status/today", handlers.GetTodaySummary(pool))

			// Dashboard
			r.Get("/dashboard", handlers.GetDashboard(pool))
		})
	})

	return r
}
