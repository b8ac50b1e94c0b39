package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/cashtrackr/cashtrackr-be/internal/api"
	"github.com/cashtrackr/cashtrackr-be/internal/auth"
	"github.com/cashtrackr/cashtrackr-be/internal/config"
	"github.com/cashtrackr/cashtrackr-be/internal/database"
	"github.com/cashtrackr/cashtrackr-be/internal/mailer"
	"github.com/cashtrackr/cashtrackr-be/internal/services"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Errors  []fieldError    `json:"errors"`
}

type APISuite struct {
	suite.Suite
	db       *sql.DB
	router   *chi.Mux
	mail     *mailer.Recorder
	users    *services.UserService
	expenses *services.ExpenseService
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	db, err := database.New(":memory:")
	s.Require().NoError(err)
	// In-memory sqlite gives each connection its own database.
	db.SetMaxOpenConns(1)
	s.Require().NoError(database.Migrate(db))
	s.db = db

	s.users = services.NewUserService(db)
	budgets := services.NewBudgetService(db)
	s.expenses = services.NewExpenseService(db)
	s.mail = &mailer.Recorder{}

	cfg := &config.Config{FrontendURL: "http://localhost:3000"}
	tokens := auth.NewTokenManager("test-secret")
	s.router = api.NewRouter(cfg, tokens, s.users, budgets, s.expenses, s.mail)
}

func (s *APISuite) TearDownTest() {
	s.db.Close()
}

// request performs an API call, optionally authenticated, and decodes the
// response envelope.
func (s *APISuite) request(method, path string, body any, sessionToken string) (int, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+sessionToken)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func (s *APISuite) register(name, email, password string) string {
	code, env := s.request(http.MethodPost, "/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, "")
	s.Require().Equal(http.StatusCreated, code)
	s.Require().Equal("User created successfully", env.Message)

	data, ok := s.mail.LastConfirmation()
	s.Require().True(ok, "registration should dispatch a confirmation email")
	s.Require().Equal(email, data.Email)
	s.Require().Len(data.Token, auth.TokenLength)
	return data.Token
}

// signUp registers, confirms and logs in, returning a session token.
func (s *APISuite) signUp(email string) string {
	confirmToken := s.register("Test", email, "12345678")

	code, _ := s.request(http.MethodPost, "/auth/confirm-account", map[string]string{"token": confirmToken}, "")
	s.Require().Equal(http.StatusOK, code)

	code, env := s.request(http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": "12345678",
	}, "")
	s.Require().Equal(http.StatusOK, code)
	s.Require().NotEmpty(env.Token)
	return env.Token
}

func (s *APISuite) createBudget(sessionToken, name string, amount float64) int64 {
	code, _ := s.request(http.MethodPost, "/budgets", map[string]any{
		"name": name, "amount": amount,
	}, sessionToken)
	s.Require().Equal(http.StatusCreated, code)

	code, env := s.request(http.MethodGet, "/budgets", nil, sessionToken)
	s.Require().Equal(http.StatusOK, code)
	var budgets []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &budgets))
	for _, b := range budgets {
		if b.Name == name {
			return b.ID
		}
	}
	s.FailNow("created budget not found in list")
	return 0
}

func (s *APISuite) TestRegisterDuplicateEmail() {
	s.register("Test", "test@test.com", "12345678")

	code, env := s.request(http.MethodPost, "/auth/register", map[string]string{
		"name": "Test", "email": "test@test.com", "password": "12345678",
	}, "")
	s.Equal(http.StatusConflict, code)
	s.Equal("User already exists", env.Message)
}

func (s *APISuite) TestRegisterValidation() {
	code, env := s.request(http.MethodPost, "/auth/register", nil, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal([]fieldError{
		{Field: "name", Message: "Name is required"},
		{Field: "email", Message: "Email is required"},
		{Field: "email", Message: "Invalid email"},
		{Field: "password", Message: "Password is required"},
		{Field: "password", Message: "Password must be at least 8 characters"},
	}, env.Errors)
}

func (s *APISuite) TestLoginLifecycle() {
	confirmToken := s.register("Test", "test@test.com", "12345678")

	// Correct password, but the account is not confirmed yet.
	code, env := s.request(http.MethodPost, "/auth/login", map[string]string{
		"email": "test@test.com", "password": "12345678",
	}, "")
	s.Equal(http.StatusForbidden, code)
	s.Equal("Unconfirmed account", env.Message)

	code, env = s.request(http.MethodPost, "/auth/confirm-account", map[string]string{"token": confirmToken}, "")
	s.Equal(http.StatusOK, code)
	s.Equal("Account confirmed successfully", env.Message)

	// The confirmation code is single-use.
	code, env = s.request(http.MethodPost, "/auth/confirm-account", map[string]string{"token": confirmToken}, "")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid token", env.Message)

	code, env = s.request(http.MethodPost, "/auth/login", map[string]string{
		"email": "missing@test.com", "password": "12345678",
	}, "")
	s.Equal(http.StatusNotFound, code)
	s.Equal("User not found", env.Message)

	code, env = s.request(http.MethodPost, "/auth/login", map[string]string{
		"email": "test@test.com", "password": "wrong-pass",
	}, "")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid password", env.Message)

	code, env = s.request(http.MethodPost, "/auth/login", map[string]string{
		"email": "test@test.com", "password": "12345678",
	}, "")
	s.Equal(http.StatusOK, code)
	s.Equal("Login successfully", env.Message)
	s.NotEmpty(env.Token)

	code, env = s.request(http.MethodGet, "/auth/user", nil, env.Token)
	s.Equal(http.StatusOK, code)
	var user struct {
		Email string `json:"email"`
	}
	s.Require().NoError(json.Unmarshal(env.User, &user))
	s.Equal("test@test.com", user.Email)
}

func (s *APISuite) TestAuthMiddlewareRejections() {
	code, env := s.request(http.MethodGet, "/budgets", nil, "")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Unauthorized User", env.Message)

	code, env = s.request(http.MethodGet, "/budgets", nil, "garbage-token")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid Token", env.Message)
}

func (s *APISuite) TestBudgetValidationOrdering() {
	token := s.signUp("test@test.com")

	code, env := s.request(http.MethodPost, "/budgets", nil, token)
	s.Equal(http.StatusBadRequest, code)
	s.Equal([]fieldError{
		{Field: "name", Message: "Name is required"},
		{Field: "amount", Message: "Amount is required"},
		{Field: "amount", Message: "Amount must be a number"},
		{Field: "amount", Message: "Amount must be greater than 0"},
	}, env.Errors)
}

func (s *APISuite) TestBudgetCRUD() {
	token := s.signUp("test@test.com")
	id := s.createBudget(token, "Groceries", 500)

	code, env := s.request(http.MethodGet, fmt.Sprintf("/budgets/%d", id), nil, token)
	s.Equal(http.StatusOK, code)
	var budget struct {
		Name     string            `json:"name"`
		Amount   float64           `json:"amount"`
		Expenses []json.RawMessage `json:"expenses"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &budget))
	s.Equal("Groceries", budget.Name)
	s.Equal(500.0, budget.Amount)
	s.Empty(budget.Expenses)

	code, env = s.request(http.MethodPut, fmt.Sprintf("/budgets/%d", id), map[string]any{
		"name": "Food", "amount": 650,
	}, token)
	s.Equal(http.StatusOK, code)
	s.Equal("Budget updated successfully", env.Message)

	code, env = s.request(http.MethodGet, "/budgets/not-a-number", nil, token)
	s.Equal(http.StatusBadRequest, code)
	s.Require().Len(env.Errors, 1)
	s.Equal("Invalid id", env.Errors[0].Message)

	code, env = s.request(http.MethodGet, "/budgets/9999", nil, token)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Budget not found", env.Message)

	code, env = s.request(http.MethodDelete, fmt.Sprintf("/budgets/%d", id), nil, token)
	s.Equal(http.StatusOK, code)
	s.Equal("Budget deleted successfully", env.Message)

	code, _ = s.request(http.MethodGet, fmt.Sprintf("/budgets/%d", id), nil, token)
	s.Equal(http.StatusNotFound, code)
}

func (s *APISuite) TestOwnershipIsolation() {
	tokenA := s.signUp("alice@test.com")
	tokenB := s.signUp("bob@test.com")

	id := s.createBudget(tokenA, "Groceries", 500)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		code, env := s.request(method, fmt.Sprintf("/budgets/%d", id), nil, tokenB)
		s.Equal(http.StatusUnauthorized, code)
		s.Equal("Invalid Action", env.Message)
	}

	// The other user's list stays empty.
	code, env := s.request(http.MethodGet, "/budgets", nil, tokenB)
	s.Equal(http.StatusOK, code)
	var budgets []json.RawMessage
	s.Require().NoError(json.Unmarshal(env.Data, &budgets))
	s.Empty(budgets)

	// The owner still reaches it.
	code, _ = s.request(http.MethodGet, fmt.Sprintf("/budgets/%d", id), nil, tokenA)
	s.Equal(http.StatusOK, code)
}

func (s *APISuite) TestExpenseFlowAndCascade() {
	token := s.signUp("test@test.com")
	budgetID := s.createBudget(token, "Groceries", 500)
	base := fmt.Sprintf("/budgets/%d/expenses", budgetID)

	code, env := s.request(http.MethodPost, base, nil, token)
	s.Equal(http.StatusBadRequest, code)
	s.Require().NotEmpty(env.Errors)
	s.Equal("Expense is required", env.Errors[0].Message)

	code, env = s.request(http.MethodPost, base, map[string]any{"name": "Milk", "amount": 4.5}, token)
	s.Equal(http.StatusCreated, code)
	s.Equal("Expense created successfully", env.Message)

	code, env = s.request(http.MethodGet, base, nil, token)
	s.Equal(http.StatusOK, code)
	var expenses []struct {
		ID     int64   `json:"id"`
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &expenses))
	s.Require().Len(expenses, 1)
	expenseID := expenses[0].ID

	code, env = s.request(http.MethodPut, fmt.Sprintf("%s/%d", base, expenseID), map[string]any{
		"name": "Oat milk", "amount": 5.5,
	}, token)
	s.Equal(http.StatusOK, code)
	s.Equal("Expense updated successfully", env.Message)

	// An expense id from a different budget is rejected at the
	// belongs-to-budget stage.
	otherBudget := s.createBudget(token, "Travel", 1000)
	code, env = s.request(http.MethodGet,
		fmt.Sprintf("/budgets/%d/expenses/%d", otherBudget, expenseID), nil, token)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid Action", env.Message)

	// Deleting the budget cascades to its expenses.
	code, _ = s.request(http.MethodDelete, fmt.Sprintf("/budgets/%d", budgetID), nil, token)
	s.Equal(http.StatusOK, code)

	_, err := s.expenses.GetExpenseByID(expenseID)
	s.ErrorIs(err, services.ErrExpenseNotFound)
}

func (s *APISuite) TestPasswordFlows() {
	token := s.signUp("test@test.com")

	code, env := s.request(http.MethodPost, "/auth/update-password", map[string]string{
		"current_password": "wrong-pass", "new_password": "new-password-1",
	}, token)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid Current Password", env.Message)

	code, env = s.request(http.MethodPost, "/auth/update-password", map[string]string{
		"current_password": "12345678", "new_password": "new-password-1",
	}, token)
	s.Equal(http.StatusOK, code)
	s.Equal("Password updated successfully", env.Message)

	code, _ = s.request(http.MethodPost, "/auth/check-password", map[string]string{
		"password": "new-password-1",
	}, token)
	s.Equal(http.StatusOK, code)

	code, env = s.request(http.MethodPost, "/auth/check-password", map[string]string{
		"password": "12345678",
	}, token)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid Password", env.Message)
}

func (s *APISuite) TestResetPasswordFlow() {
	s.signUp("test@test.com")

	code, env := s.request(http.MethodPost, "/auth/forgot-password", map[string]string{
		"email": "missing@test.com",
	}, "")
	s.Equal(http.StatusNotFound, code)
	s.Equal("User not found", env.Message)

	code, env = s.request(http.MethodPost, "/auth/forgot-password", map[string]string{
		"email": "test@test.com",
	}, "")
	s.Equal(http.StatusOK, code)
	s.Equal("Email sent successfully", env.Message)

	reset, ok := s.mail.LastReset()
	s.Require().True(ok)
	s.Require().Len(reset.Token, auth.TokenLength)

	code, env = s.request(http.MethodPost, "/auth/validate-token", map[string]string{"token": reset.Token}, "")
	s.Equal(http.StatusOK, code)
	s.Equal("Token is valid. Assign a new password", env.Message)

	code, env = s.request(http.MethodPost, "/auth/validate-token", map[string]string{"token": "zzzzzz"}, "")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid token", env.Message)

	code, env = s.request(http.MethodPost, "/auth/reset-password/"+reset.Token, map[string]string{
		"password": "brand-new-pass",
	}, "")
	s.Equal(http.StatusOK, code)
	s.Equal("Reset password successfully", env.Message)

	// The reset code is single-use.
	code, env = s.request(http.MethodPost, "/auth/reset-password/"+reset.Token, map[string]string{
		"password": "another-pass-1",
	}, "")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Invalid token", env.Message)

	code, env = s.request(http.MethodPost, "/auth/login", map[string]string{
		"email": "test@test.com", "password": "brand-new-pass",
	}, "")
	s.Equal(http.StatusOK, code)
	s.NotEmpty(env.Token)
}

func (s *APISuite) TestUpdateProfile() {
	token := s.signUp("test@test.com")
	s.signUp("taken@test.com")

	code, env := s.request(http.MethodPut, "/auth/user", map[string]string{
		"name": "Test", "email": "taken@test.com",
	}, token)
	s.Equal(http.StatusConflict, code)
	s.Equal("Email already in use", env.Message)

	code, env = s.request(http.MethodPut, "/auth/user", map[string]string{
		"name": "Renamed", "email": "renamed@test.com",
	}, token)
	s.Equal(http.StatusOK, code)
	s.Equal("Profile updated successfully", env.Message)

	code, env = s.request(http.MethodGet, "/auth/user", nil, token)
	s.Equal(http.StatusOK, code)
	var user struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	s.Require().NoError(json.Unmarshal(env.User, &user))
	s.Equal("Renamed", user.Name)
	s.Equal("renamed@test.com", user.Email)
}
