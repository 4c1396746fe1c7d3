package http

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	commonhttp "github.com/expensio/backend/internal/common/http"
	"github.com/expensio/backend/internal/common/jwtverify"
	"github.com/expensio/backend/internal/common/logger"
	"github.com/expensio/backend/internal/expense/domain"
	"github.com/expensio/backend/internal/expense/service"
	userdomain "github.com/expensio/backend/internal/user/domain"
)

const dateLayout = "2006-01-02"

type createExpenseRequest struct {
	Amount      *float64 `json:"amount" validate:"required"`
	Category    string   `json:"category" validate:"required,oneof=Groceries Leisure Electronics Utilities Clothing Health Others"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Description string   `json:"description"`
}

type updateExpenseRequest struct {
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category" validate:"omitempty,oneof=Groceries Leisure Electronics Utilities Clothing Health Others"`
	Date        *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description *string  `json:"description"`
}

type listExpensesQuery struct {
	Period    string `validate:"omitempty,oneof=week month 3months"`
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
	Page      int
	Limit     int
	SortBy    string `validate:"omitempty,oneof=date amount"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

type expenseResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type Handler struct {
	expenses *service.ExpenseService
	errs     *commonhttp.ErrorHandler
	log      *logger.Logger
	timeout  time.Duration
}

func NewHandler(expenses *service.ExpenseService, log *logger.Logger, timeout time.Duration) *Handler {
	return &Handler{
		expenses: expenses,
		errs:     commonhttp.NewErrorHandler(log),
		log:      log,
		timeout:  timeout,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/expenses", h.collection)
	mux.HandleFunc("/api/expenses/", h.item)
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.remove(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req createExpenseRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create expense failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if !commonhttp.ValidateRequest(w, r, req) {
		return
	}

	date, _ := time.Parse(dateLayout, req.Date)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	expense, err := h.expenses.Create(ctx, ownerID, service.CreateInput{
		AmountCents: centsFromAmount(*req.Amount),
		Category:    domain.Category(req.Category),
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toResponse(expense))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	query, ok := h.parseListQuery(w, r)
	if !ok {
		return
	}

	filter := service.Filter{
		Period:    domain.Period(query.Period),
		Page:      query.Page,
		Limit:     query.Limit,
		SortBy:    domain.SortField(query.SortBy),
		SortOrder: domain.SortOrder(query.SortOrder),
	}
	if query.StartDate != "" {
		from, _ := time.Parse(dateLayout, query.StartDate)
		filter.StartDate = &from
	}
	if query.EndDate != "" {
		to, _ := time.Parse(dateLayout, query.EndDate)
		filter.EndDate = &to
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	expenses, err := h.expenses.Find(ctx, ownerID, filter)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toResponse(e))
	}

	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	var req updateExpenseRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update expense failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if !commonhttp.ValidateRequest(w, r, req) {
		return
	}

	input := service.UpdateInput{
		Description: req.Description,
	}
	if req.Amount != nil {
		cents := centsFromAmount(*req.Amount)
		input.AmountCents = &cents
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		input.Category = &category
	}
	if req.Date != nil {
		date, _ := time.Parse(dateLayout, *req.Date)
		input.Date = &date
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	expense, err := h.expenses.Update(ctx, id, ownerID, input)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toResponse(expense))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	expense, err := h.expenses.Remove(ctx, id, ownerID)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toResponse(expense))
}

func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request) (userdomain.ID, bool) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing or invalid authorization", nil, "")
		return "", false
	}
	return userdomain.ID(claims.UserID), true
}

func (h *Handler) expenseID(w http.ResponseWriter, r *http.Request) (domain.ID, bool) {
	raw, ok := commonhttp.ExtractIDFromPath(r.URL.Path, "/api/expenses/")
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "missing expense id", nil, "")
		return "", false
	}

	if err := commonhttp.ValidateUUID(raw); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidIDFormat, "invalid expense id format", nil, "")
		return "", false
	}

	return domain.ID(raw), true
}

func (h *Handler) parseListQuery(w http.ResponseWriter, r *http.Request) (listExpensesQuery, bool) {
	values := r.URL.Query()

	query := listExpensesQuery{
		Period:    values.Get("period"),
		StartDate: values.Get("startDate"),
		EndDate:   values.Get("endDate"),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
	}

	for name, target := range map[string]*int{"page": &query.Page, "limit": &query.Limit} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeValidationFailed, "invalid "+name+" value", nil, "")
			return listExpensesQuery{}, false
		}
		*target = parsed
	}

	if !commonhttp.ValidateRequest(w, r, query) {
		return listExpensesQuery{}, false
	}

	return query, true
}

func centsFromAmount(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func amountFromCents(cents int64) float64 {
	return float64(cents) / 100
}

func toResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          string(e.ID),
		UserID:      string(e.OwnerID),
		Amount:      amountFromCents(e.AmountCents),
		Category:    string(e.Category),
		Date:        e.Date.Format(dateLayout),
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
