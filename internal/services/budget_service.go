package services

import (
	"database/sql"

	"github.com/cashtrackr/cashtrackr-be/internal/models"
)

// BudgetServiceProvider defines the interface for the budget store.
type BudgetServiceProvider interface {
	GetBudgetsByUser(userID int64) ([]models.Budget, error)
	GetBudgetByID(id int64) (models.Budget, error)
	GetBudgetWithExpenses(id int64) (models.Budget, error)
	CreateBudget(userID int64, name string, amount float64) (models.Budget, error)
	UpdateBudget(id int64, name string, amount float64) error
	DeleteBudget(id int64) error
}

// BudgetService provides the owner-scoped budget store.
type BudgetService struct {
	db *sql.DB
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db}
}

const budgetColumns = "id, name, amount, user_id, created_at, updated_at"

// GetBudgetsByUser returns the user's budgets, newest first.
func (s *BudgetService) GetBudgetsByUser(userID int64) ([]models.Budget, error) {
	rows, err := s.db.Query(
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.UserID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// GetBudgetByID retrieves a single budget.
func (s *BudgetService) GetBudgetByID(id int64) (models.Budget, error) {
	var b models.Budget
	row := s.db.QueryRow("SELECT "+budgetColumns+" FROM budgets WHERE id = ?", id)
	err := row.Scan(&b.ID, &b.Name, &b.Amount, &b.UserID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Budget{}, ErrBudgetNotFound
		}
		return models.Budget{}, err
	}
	return b, nil
}

// GetBudgetWithExpenses retrieves a budget together with its expenses,
// newest expense first.
func (s *BudgetService) GetBudgetWithExpenses(id int64) (models.Budget, error) {
	b, err := s.GetBudgetByID(id)
	if err != nil {
		return models.Budget{}, err
	}

	rows, err := s.db.Query(
		"SELECT id, name, amount, budget_id, created_at, updated_at FROM expenses WHERE budget_id = ? ORDER BY created_at DESC, id DESC", id)
	if err != nil {
		return models.Budget{}, err
	}
	defer rows.Close()

	b.Expenses = []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Name, &e.Amount, &e.BudgetID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return models.Budget{}, err
		}
		b.Expenses = append(b.Expenses, e)
	}
	return b, rows.Err()
}

// CreateBudget creates a budget owned by the given user.
func (s *BudgetService) CreateBudget(userID int64, name string, amount float64) (models.Budget, error) {
	res, err := s.db.Exec(
		"INSERT INTO budgets(name, amount, user_id) VALUES(?, ?, ?)", name, amount, userID)
	if err != nil {
		return models.Budget{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Budget{}, err
	}
	return s.GetBudgetByID(id)
}

// UpdateBudget replaces the budget's name and amount.
func (s *BudgetService) UpdateBudget(id int64, name string, amount float64) error {
	res, err := s.db.Exec(
		"UPDATE budgets SET name = ?, amount = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", name, amount, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrBudgetNotFound)
}

// DeleteBudget removes a budget. Its expenses go with it through the
// budget_id foreign key cascade.
func (s *BudgetService) DeleteBudget(id int64) error {
	res, err := s.db.Exec("DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrBudgetNotFound)
}
