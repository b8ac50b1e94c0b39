package services

import (
	"database/sql"

	"github.com/cashtrackr/cashtrackr-be/internal/models"
)

// ExpenseServiceProvider defines the interface for the expense store.
type ExpenseServiceProvider interface {
	GetExpensesByBudget(budgetID int64) ([]models.Expense, error)
	GetExpenseByID(id int64) (models.Expense, error)
	CreateExpense(budgetID int64, name string, amount float64) (models.Expense, error)
	UpdateExpense(id int64, name string, amount float64) error
	DeleteExpense(id int64) error
}

// ExpenseService provides the expense store, scoped by parent budget.
type ExpenseService struct {
	db *sql.DB
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(db *sql.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

const expenseColumns = "id, name, amount, budget_id, created_at, updated_at"

// GetExpensesByBudget returns the budget's expenses, newest first.
func (s *ExpenseService) GetExpensesByBudget(budgetID int64) ([]models.Expense, error) {
	rows, err := s.db.Query(
		"SELECT "+expenseColumns+" FROM expenses WHERE budget_id = ? ORDER BY created_at DESC, id DESC", budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Name, &e.Amount, &e.BudgetID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// GetExpenseByID retrieves a single expense.
func (s *ExpenseService) GetExpenseByID(id int64) (models.Expense, error) {
	var e models.Expense
	row := s.db.QueryRow("SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	err := row.Scan(&e.ID, &e.Name, &e.Amount, &e.BudgetID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Expense{}, ErrExpenseNotFound
		}
		return models.Expense{}, err
	}
	return e, nil
}

// CreateExpense creates an expense under the given budget.
func (s *ExpenseService) CreateExpense(budgetID int64, name string, amount float64) (models.Expense, error) {
	res, err := s.db.Exec(
		"INSERT INTO expenses(name, amount, budget_id) VALUES(?, ?, ?)", name, amount, budgetID)
	if err != nil {
		return models.Expense{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Expense{}, err
	}
	return s.GetExpenseByID(id)
}

// UpdateExpense replaces the expense's name and amount.
func (s *ExpenseService) UpdateExpense(id int64, name string, amount float64) error {
	res, err := s.db.Exec(
		"UPDATE expenses SET name = ?, amount = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", name, amount, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrExpenseNotFound)
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(id int64) error {
	res, err := s.db.Exec("DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrExpenseNotFound)
}
