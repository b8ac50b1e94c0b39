package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cashtrackr/cashtrackr-be/internal/api/respond"
	"github.com/cashtrackr/cashtrackr-be/internal/services"
	"github.com/cashtrackr/cashtrackr-be/internal/validation"
)

// ExpenseHandler handles the expense CRUD routes nested under a budget.
// BudgetCtx has already resolved the parent budget and checked ownership;
// ExpenseCtx has resolved the expense for the routes that address one.
type ExpenseHandler struct {
	expenses services.ExpenseServiceProvider
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenses services.ExpenseServiceProvider) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// GetAll lists the parent budget's expenses, newest first.
func (h *ExpenseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	budget, _ := BudgetFromContext(r.Context())

	expenses, err := h.expenses.GetExpensesByBudget(budget.ID)
	if err != nil {
		log.Error().Err(err).Int64("budget_id", budget.ID).Msg("Failed to list expenses")
		respond.Internal(w)
		return
	}

	respond.Data(w, http.StatusOK, expenses)
}

// Create adds an expense under the parent budget.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	budget, _ := BudgetFromContext(r.Context())

	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validateBudgetPayload(payload, "Expense is required"); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	amount, _ := validation.ToFloat(payload.Amount)
	if _, err := h.expenses.CreateExpense(budget.ID, payload.Name, amount); err != nil {
		log.Error().Err(err).Int64("budget_id", budget.ID).Msg("Failed to create expense")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusCreated, "Expense created successfully")
}

// GetByID returns the resolved expense.
func (h *ExpenseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	expense, _ := ExpenseFromContext(r.Context())
	respond.Data(w, http.StatusOK, expense)
}

// Update merges the validated body into the resolved expense.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	expense, _ := ExpenseFromContext(r.Context())

	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validateBudgetPayload(payload, "Expense is required"); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	amount, _ := validation.ToFloat(payload.Amount)
	if err := h.expenses.UpdateExpense(expense.ID, payload.Name, amount); err != nil {
		log.Error().Err(err).Int64("expense_id", expense.ID).Msg("Failed to update expense")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Expense updated successfully")
}

// Delete removes the resolved expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	expense, _ := ExpenseFromContext(r.Context())

	if err := h.expenses.DeleteExpense(expense.ID); err != nil {
		log.Error().Err(err).Int64("expense_id", expense.ID).Msg("Failed to delete expense")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Expense deleted successfully")
}
