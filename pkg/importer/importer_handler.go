package importer

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/moneta-app/moneta/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type ResultDTO struct {
	Imported int                  `json:"imported"`
	Items    []expense.ExpenseDTO `json:"items"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// Import accepts the CSV either as a multipart upload under the "file"
// field or as the raw request body.
func (handler *Handler) Import(w http.ResponseWriter, r *http.Request) {
	log.Debug("Importing expenses from CSV")
	w.Header().Set("Content-Type", "application/json")

	var source io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Missing file upload", http.StatusBadRequest)
			return
		}
		defer file.Close()
		source = file
	}

	result, err := handler.service.Import(r.Context(), source)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resultDTO := ResultDTO{
		Imported: result.Imported,
		Items:    make([]expense.ExpenseDTO, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		resultDTO.Items = append(resultDTO.Items, expense.ExpenseToDTO(item))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resultDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
