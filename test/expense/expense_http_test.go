package expense

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authservice "github.com/expensio/backend/internal/auth/service"
	"github.com/expensio/backend/internal/common/clock"
	"github.com/expensio/backend/internal/common/jwtverify"
	"github.com/expensio/backend/internal/common/logger"
	"github.com/expensio/backend/internal/expense/domain"
	expensehttp "github.com/expensio/backend/internal/expense/http"
	"github.com/expensio/backend/internal/expense/repository"
	userdomain "github.com/expensio/backend/internal/user/domain"
)

const (
	testHTTPSecret    = "0123456789abcdef0123456789abcdef"
	testHTTPExpenseID = "3b241101-e2bb-4255-8caf-4136c566a962"
)

func setupExpenseHandler(t *testing.T) (http.Handler, *mockExpenseRepo) {
	svc, mockRepo, _, _ := setupExpenseService(t)

	log, _ := logger.New("", "test", "info")
	handler := expensehttp.NewHandler(svc, log, 5*time.Second)

	mux := http.NewServeMux()
	handler.Register(mux)

	return jwtverify.Middleware(testHTTPSecret, log)(mux), mockRepo
}

func bearerToken(t *testing.T, userID string) string {
	issuer := authservice.NewTokenIssuer(testHTTPSecret, 30*time.Minute, clock.NewMockClock(time.Now()))
	token, err := issuer.IssueAccessToken(userdomain.Identity{
		ID:       userdomain.ID(userID),
		Username: "testuser",
	})
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return "Bearer " + token
}

func TestExpenseHTTP_MissingToken(t *testing.T) {
	handler, _ := setupExpenseHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestExpenseHTTP_GarbageToken(t *testing.T) {
	handler, _ := setupExpenseHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestExpenseHTTP_Create_Success(t *testing.T) {
	handler, mockRepo := setupExpenseHandler(t)

	var stored domain.Expense
	mockRepo.createFunc = func(ctx context.Context, expense domain.Expense) error {
		stored = expense
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/expenses",
		strings.NewReader(`{"amount":10.50,"category":"Groceries","date":"2024-06-10","description":"weekly shop"}`))
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if stored.AmountCents != 1050 {
		t.Errorf("expected 1050 cents, got %d", stored.AmountCents)
	}
	if stored.OwnerID != "owner-123" {
		t.Errorf("expected owner from token, got %s", stored.OwnerID)
	}

	var body struct {
		Amount   float64 `json:"amount"`
		UserID   string  `json:"user_id"`
		Category string  `json:"category"`
		Date     string  `json:"date"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Amount != 10.5 {
		t.Errorf("expected amount 10.5, got %v", body.Amount)
	}
	if body.UserID != "owner-123" {
		t.Errorf("expected user_id owner-123, got %s", body.UserID)
	}
	if body.Date != "2024-06-10" {
		t.Errorf("expected date 2024-06-10, got %s", body.Date)
	}
}

func TestExpenseHTTP_Create_UnknownCategory(t *testing.T) {
	handler, mockRepo := setupExpenseHandler(t)

	called := false
	mockRepo.createFunc = func(ctx context.Context, expense domain.Expense) error {
		called = true
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/expenses",
		strings.NewReader(`{"amount":10.50,"category":"Gambling","date":"2024-06-10"}`))
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if called {
		t.Error("expected nothing to be persisted")
	}
}

func TestExpenseHTTP_Create_BadDateFormat(t *testing.T) {
	handler, _ := setupExpenseHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/expenses",
		strings.NewReader(`{"amount":10.50,"category":"Groceries","date":"10/06/2024"}`))
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestExpenseHTTP_Create_MissingAmount(t *testing.T) {
	handler, _ := setupExpenseHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/expenses",
		strings.NewReader(`{"category":"Groceries","date":"2024-06-10"}`))
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestExpenseHTTP_List_Success(t *testing.T) {
	handler, mockRepo := setupExpenseHandler(t)

	var captured repository.Query
	mockRepo.findFunc = func(ctx context.Context, q repository.Query) ([]domain.Expense, error) {
		captured = q
		return []domain.Expense{
			{ID: "a", OwnerID: "owner-123", AmountCents: 1050, Category: domain.CategoryGroceries},
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/expenses?period=week&sortBy=amount&sortOrder=asc", nil)
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.OwnerID != "owner-123" {
		t.Errorf("expected owner from token, got %s", captured.OwnerID)
	}
	if captured.From == nil {
		t.Error("expected a period lower bound")
	}
	if captured.SortBy != domain.SortByAmount || captured.Order != domain.SortAsc {
		t.Errorf("expected amount asc, got %s %s", captured.SortBy, captured.Order)
	}

	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("expected one expense, got %d", len(body))
	}
}

func TestExpenseHTTP_List_InvalidPage(t *testing.T) {
	handler, _ := setupExpenseHandler(t)

	for _, query := range []string{"page=0&limit=10", "page=abc&limit=10", "page=1&limit=-5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/expenses?"+query, nil)
		req.Header.Set("Authorization", bearerToken(t, "owner-123"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", query, rec.Code)
		}
	}
}

func TestExpenseHTTP_List_InvalidPeriod(t *testing.T) {
	handler, _ := setupExpenseHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses?period=year", nil)
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestExpenseHTTP_Update_Success(t *testing.T) {
	handler, mockRepo := setupExpenseHandler(t)

	existing := domain.Expense{
		ID:          domain.ID(testHTTPExpenseID),
		OwnerID:     "owner-123",
		AmountCents: 1050,
		Category:    domain.CategoryGroceries,
		Date:        time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	updated := existing
	updated.AmountCents = 5000

	reads := 0
	mockRepo.findByIDAndOwnerFunc = func(ctx context.Context, id domain.ID, ownerID userdomain.ID) (domain.Expense, error) {
		reads++
		if reads == 1 {
			return existing, nil
		}
		return updated, nil
	}

	req := httptest.NewRequest(http.MethodPut, "/api/expenses/"+testHTTPExpenseID,
		strings.NewReader(`{"amount":50}`))
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Amount != 50 {
		t.Errorf("expected amount 50, got %v", body.Amount)
	}
	if body.Category != "Groceries" {
		t.Errorf("expected untouched category, got %s", body.Category)
	}
}

func TestExpenseHTTP_Update_BadIDFormat(t *testing.T) {
	handler, _ := setupExpenseHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/expenses/not-a-uuid",
		strings.NewReader(`{"amount":50}`))
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestExpenseHTTP_Delete_Success(t *testing.T) {
	handler, mockRepo := setupExpenseHandler(t)

	existing := domain.Expense{
		ID:          domain.ID(testHTTPExpenseID),
		OwnerID:     "owner-123",
		AmountCents: 1050,
		Category:    domain.CategoryHealth,
		Date:        time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	mockRepo.findByIDAndOwnerFunc = func(ctx context.Context, id domain.ID, ownerID userdomain.ID) (domain.Expense, error) {
		return existing, nil
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/expenses/"+testHTTPExpenseID, nil)
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		ID     string  `json:"id"`
		Amount float64 `json:"amount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.ID != testHTTPExpenseID || body.Amount != 10.5 {
		t.Errorf("expected the deleted record back, got %+v", body)
	}
}

func TestExpenseHTTP_Delete_NotFound(t *testing.T) {
	handler, _ := setupExpenseHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/expenses/"+testHTTPExpenseID, nil)
	req.Header.Set("Authorization", bearerToken(t, "owner-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Code != "EXPENSE_NOT_FOUND" {
		t.Errorf("expected code EXPENSE_NOT_FOUND, got %s", body.Code)
	}
}
