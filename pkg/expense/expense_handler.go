package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	ID         int64           `json:"id"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	CategoryID int64           `json:"categoryId"`
}

type MonthSummaryDTO struct {
	CategoryID int64           `json:"categoryId"`
	Month      string          `json:"month"`
	Total      decimal.Decimal `json:"total"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	expenses, err := handler.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	expensesDTO := make([]ExpenseDTO, 0, len(expenses))
	for _, expense := range expenses {
		expensesDTO = append(expensesDTO, ExpenseToDTO(expense))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(expensesDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new expense")
	w.Header().Set("Content-Type", "application/json")

	var expenseDTO ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&expenseDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Create(r.Context(), DTOToExpense(expenseDTO))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	expenseId, err := strconv.ParseInt(vars["expenseId"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var expenseDTO ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&expenseDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if expenseDTO.ID == 0 || expenseDTO.ID != expenseId {
		http.Error(w, "Invalid expense id in request body", http.StatusBadRequest)
		return
	}

	updated, err := handler.service.Update(r.Context(), DTOToExpense(expenseDTO))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	expenseId, err := strconv.ParseInt(vars["expenseId"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := handler.service.Delete(r.Context(), expenseId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Deleting an absent expense is not an error, the response just
	// reports that nothing was removed.
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]bool{"deleted": deleted}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) GetMonthSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	categoryId, err := strconv.ParseInt(r.URL.Query().Get("categoryId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid categoryId", http.StatusBadRequest)
		return
	}
	month := r.URL.Query().Get("month")
	if _, err := time.Parse("2006-01", month); err != nil {
		http.Error(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	total, err := handler.service.SumForCategoryAndMonth(r.Context(), categoryId, month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	summary := MonthSummaryDTO{CategoryID: categoryId, Month: month, Total: total}
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "Expense not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ExpenseToDTO(expense Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:         expense.ID,
		Label:      expense.Label,
		Amount:     expense.Amount,
		Date:       expense.Date,
		CategoryID: expense.CategoryID,
	}
}

func DTOToExpense(expenseDTO ExpenseDTO) Expense {
	return Expense{
		ID:         expenseDTO.ID,
		Label:      expenseDTO.Label,
		Amount:     expenseDTO.Amount,
		Date:       expenseDTO.Date,
		CategoryID: expenseDTO.CategoryID,
	}
}
