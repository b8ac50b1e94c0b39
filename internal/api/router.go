package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cashtrackr/cashtrackr-be/internal/api/handlers"
	"github.com/cashtrackr/cashtrackr-be/internal/auth"
	"github.com/cashtrackr/cashtrackr-be/internal/config"
	"github.com/cashtrackr/cashtrackr-be/internal/mailer"
	"github.com/cashtrackr/cashtrackr-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenManager,
	users services.UserServiceProvider,
	budgets services.BudgetServiceProvider,
	expenses services.ExpenseServiceProvider,
	mail mailer.Mailer,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users, tokens, mail)
	budgetHandler := handlers.NewBudgetHandler(budgets)
	expenseHandler := handlers.NewExpenseHandler(expenses)

	requireAuth := auth.RequireAuth(tokens, users)
	limiter := handlers.RateLimit()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.With(limiter).Post("/login", authHandler.Login)
		r.With(limiter).Post("/confirm-account", authHandler.ConfirmAccount)
		r.With(limiter).Post("/forgot-password", authHandler.ForgotPassword)
		r.With(limiter).Post("/validate-token", authHandler.ValidateToken)
		r.With(limiter).Post("/reset-password/{token}", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/update-password", authHandler.UpdatePassword)
			r.Post("/check-password", authHandler.CheckPassword)
			r.Get("/user", authHandler.GetUser)
			r.Put("/user", authHandler.UpdateUser)
		})
	})

	r.Route("/budgets", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/", budgetHandler.GetAll)
		r.Post("/", budgetHandler.Create)

		r.Route("/{budgetId}", func(r chi.Router) {
			r.Use(handlers.BudgetCtx(budgets))

			r.Get("/", budgetHandler.GetByID)
			r.Put("/", budgetHandler.Update)
			r.Delete("/", budgetHandler.Delete)

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expenseHandler.GetAll)
				r.Post("/", expenseHandler.Create)

				r.Route("/{expenseId}", func(r chi.Router) {
					r.Use(handlers.ExpenseCtx(expenses))

					r.Get("/", expenseHandler.GetByID)
					r.Put("/", expenseHandler.Update)
					r.Delete("/", expenseHandler.Delete)
				})
			})
		})
	})

	return r
}
