package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cashtrackr/cashtrackr-be/internal/api/respond"
	"github.com/cashtrackr/cashtrackr-be/internal/auth"
	"github.com/cashtrackr/cashtrackr-be/internal/models"
	"github.com/cashtrackr/cashtrackr-be/internal/services"
	"github.com/cashtrackr/cashtrackr-be/internal/validation"
)

type contextKey string

const (
	budgetContextKey  = contextKey("budget")
	expenseContextKey = contextKey("expense")
)

// parseResourceID validates the path parameter shape: a positive integer.
func parseResourceID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	return id, err == nil && id > 0
}

// BudgetCtx validates the budgetId path parameter, resolves the budget and
// enforces that the authenticated user owns it. Each stage short-circuits
// on first failure; handlers below only ever see a resolved, authorized
// budget.
func BudgetCtx(budgets services.BudgetServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseResourceID(r, "budgetId")
			if !ok {
				respond.ValidationFailed(w, []validation.FieldError{
					{Field: "budgetId", Message: "Invalid id"},
				})
				return
			}

			budget, err := budgets.GetBudgetByID(id)
			if err != nil {
				if err == services.ErrBudgetNotFound {
					respond.Error(w, http.StatusNotFound, "Budget not found")
					return
				}
				log.Error().Err(err).Int64("budget_id", id).Msg("Failed to resolve budget")
				respond.Internal(w)
				return
			}

			user, ok := auth.UserFromContext(r.Context())
			if !ok || budget.UserID != user.ID {
				respond.Error(w, http.StatusUnauthorized, "Invalid Action")
				return
			}

			ctx := context.WithValue(r.Context(), budgetContextKey, budget)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExpenseCtx validates the expenseId path parameter, resolves the expense
// and enforces that it belongs to the budget already resolved by
// BudgetCtx. Ownership is therefore transitive: budget owner first, then
// expense membership.
func ExpenseCtx(expenses services.ExpenseServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseResourceID(r, "expenseId")
			if !ok {
				respond.ValidationFailed(w, []validation.FieldError{
					{Field: "expenseId", Message: "Invalid id"},
				})
				return
			}

			expense, err := expenses.GetExpenseByID(id)
			if err != nil {
				if err == services.ErrExpenseNotFound {
					respond.Error(w, http.StatusNotFound, "Expense not found")
					return
				}
				log.Error().Err(err).Int64("expense_id", id).Msg("Failed to resolve expense")
				respond.Internal(w)
				return
			}

			budget, ok := BudgetFromContext(r.Context())
			if !ok || expense.BudgetID != budget.ID {
				respond.Error(w, http.StatusUnauthorized, "Invalid Action")
				return
			}

			ctx := context.WithValue(r.Context(), expenseContextKey, expense)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BudgetFromContext returns the budget attached by BudgetCtx.
func BudgetFromContext(ctx context.Context) (models.Budget, bool) {
	budget, ok := ctx.Value(budgetContextKey).(models.Budget)
	return budget, ok
}

// ExpenseFromContext returns the expense attached by ExpenseCtx.
func ExpenseFromContext(ctx context.Context) (models.Expense, bool) {
	expense, ok := ctx.Value(expenseContextKey).(models.Expense)
	return expense, ok
}
