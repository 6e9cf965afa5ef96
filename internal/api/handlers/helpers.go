package handlers

import (
	"encoding/json"
	"log"
	"market-route-service/internal/api/dto"
	"market-route-service/internal/domain"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeValidationError reports every rejected field at once.
func writeValidationError(w http.ResponseWriter, r *http.Request, verrs domain.ValidationErrors) {
	res := dto.ValidationErrorResponse{
		Error:   "validation failed",
		Details: make([]dto.FieldErrorResponse, 0, len(verrs)),
	}
	for _, fe := range verrs {
		res.Details = append(res.Details, dto.FieldErrorResponse{Field: fe.Field, Message: fe.Message})
	}
	writeJSON(w, r, http.StatusBadRequest, res)
}
