package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/category", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/category/{categoryId}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/category/{categoryId}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Expenses
	r.HandleFunc("/api/expense", deps.ExpenseHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/expense", deps.ExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/expense/summary", deps.ExpenseHandler.GetMonthSummary).
		Queries("categoryId", "{categoryId}", "month", "{month}").Methods("GET")
	r.HandleFunc("/api/expense/import", deps.ImportHandler.Import).Methods("POST")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.Delete).Methods("DELETE")

	// Health
	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.DB.PingContext(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
}
