package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cashtrackr/cashtrackr-be/internal/api/respond"
	"github.com/cashtrackr/cashtrackr-be/internal/auth"
	"github.com/cashtrackr/cashtrackr-be/internal/services"
	"github.com/cashtrackr/cashtrackr-be/internal/validation"
)

// BudgetHandler handles the budget CRUD routes. The access middleware has
// already authenticated the caller and, for routes addressing a single
// budget, resolved it and checked ownership.
type BudgetHandler struct {
	budgets services.BudgetServiceProvider
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgets services.BudgetServiceProvider) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// budgetPayload keeps the amount untyped so every validation rule can
// report against the raw value.
type budgetPayload struct {
	Name   string `json:"name"`
	Amount any    `json:"amount"`
}

func validateBudgetPayload(p budgetPayload, nameMessage string) []validation.FieldError {
	return validation.Validate(
		validation.Field{Name: "name", Value: p.Name, Rules: []validation.Rule{
			validation.Required(nameMessage),
		}},
		validation.Field{Name: "amount", Value: p.Amount, Rules: []validation.Rule{
			validation.Required("Amount is required"),
			validation.Numeric("Amount must be a number"),
			validation.GreaterThan(0, "Amount must be greater than 0"),
		}},
	)
}

// GetAll lists the authenticated user's budgets, newest first.
func (h *BudgetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	budgets, err := h.budgets.GetBudgetsByUser(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to list budgets")
		respond.Internal(w)
		return
	}

	respond.Data(w, http.StatusOK, budgets)
}

// Create adds a budget owned by the authenticated user.
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validateBudgetPayload(payload, "Name is required"); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	amount, _ := validation.ToFloat(payload.Amount)
	if _, err := h.budgets.CreateBudget(user.ID, payload.Name, amount); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to create budget")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusCreated, "Budget created successfully")
}

// GetByID returns the resolved budget together with its expenses.
func (h *BudgetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	budget, _ := BudgetFromContext(r.Context())

	full, err := h.budgets.GetBudgetWithExpenses(budget.ID)
	if err != nil {
		log.Error().Err(err).Int64("budget_id", budget.ID).Msg("Failed to load budget expenses")
		respond.Internal(w)
		return
	}

	respond.Data(w, http.StatusOK, full)
}

// Update merges the validated body into the resolved budget.
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	budget, _ := BudgetFromContext(r.Context())

	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validateBudgetPayload(payload, "Name is required"); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	amount, _ := validation.ToFloat(payload.Amount)
	if err := h.budgets.UpdateBudget(budget.ID, payload.Name, amount); err != nil {
		log.Error().Err(err).Int64("budget_id", budget.ID).Msg("Failed to update budget")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Budget updated successfully")
}

// Delete removes the resolved budget; its expenses cascade with it.
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	budget, _ := BudgetFromContext(r.Context())

	if err := h.budgets.DeleteBudget(budget.ID); err != nil {
		log.Error().Err(err).Int64("budget_id", budget.ID).Msg("Failed to delete budget")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Budget deleted successfully")
}
