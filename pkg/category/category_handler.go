package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type CategoryDTO struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Color        string           `json:"color,omitempty"`
	MonthlyLimit *decimal.Decimal `json:"monthlyLimit,omitempty"`
}

type DeleteResultDTO struct {
	Deleted      bool   `json:"deleted"`
	Reason       string `json:"reason,omitempty"`
	ExpenseCount int    `json:"expenseCount,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	categories, err := handler.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	categoriesDTO := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		categoriesDTO = append(categoriesDTO, CategoryToDTO(category))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(categoriesDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new category")
	w.Header().Set("Content-Type", "application/json")

	var categoryDTO CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&categoryDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Create(r.Context(), categoryDTO.Name)
	if err != nil {
		if errors.Is(err, ErrNameMissing) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrNameTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(CategoryToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	categoryId, err := strconv.ParseInt(vars["categoryId"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var categoryDTO CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&categoryDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if categoryDTO.ID == 0 || categoryDTO.ID != categoryId {
		http.Error(w, "Invalid category id in request body", http.StatusBadRequest)
		return
	}

	updated, err := handler.service.Update(r.Context(), DTOToCategory(categoryDTO))
	if err != nil {
		if errors.Is(err, ErrNameMissing) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrNameTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(CategoryToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	categoryId, err := strconv.ParseInt(vars["categoryId"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := handler.service.Delete(r.Context(), categoryId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resultDTO := DeleteResultDTO{
		Deleted:      result.Deleted,
		Reason:       result.Reason,
		ExpenseCount: result.ExpenseCount,
	}

	switch {
	case result.Deleted:
		w.WriteHeader(http.StatusOK)
	case result.Reason == ReasonHasExpenses:
		w.WriteHeader(http.StatusConflict)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
	if err := json.NewEncoder(w).Encode(resultDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func CategoryToDTO(category Category) CategoryDTO {
	var limit *decimal.Decimal
	if category.MonthlyLimit.Valid {
		limit = &category.MonthlyLimit.Decimal
	}
	return CategoryDTO{
		ID:           category.ID,
		Name:         category.Name,
		Color:        category.Color,
		MonthlyLimit: limit,
	}
}

func DTOToCategory(categoryDTO CategoryDTO) Category {
	var limit decimal.NullDecimal
	if categoryDTO.MonthlyLimit != nil {
		limit = decimal.NewNullDecimal(*categoryDTO.MonthlyLimit)
	}
	return Category{
		ID:           categoryDTO.ID,
		Name:         categoryDTO.Name,
		Color:        categoryDTO.Color,
		MonthlyLimit: limit,
	}
}
