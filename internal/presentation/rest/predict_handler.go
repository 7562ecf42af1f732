package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
)

const maxPredictBody = 1 << 20

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// PredictHandler serves single-record risk predictions.
type PredictHandler struct {
	predict *usecase.PredictRisk
	logger  *slog.Logger
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(predict *usecase.PredictRisk, logger *slog.Logger) *PredictHandler {
	return &PredictHandler{predict: predict, logger: logger}
}

// RegisterRoutes registers the prediction endpoint on the provided ServeMux.
func (h *PredictHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.Predict)
}

// Predict decodes a CustomerData record and returns its high risk probability.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerData
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	resp, err := h.predict.Execute(r.Context(), req)
	if err != nil {
		var validationErr *usecase.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing required fields", Fields: validationErr.Fields})
		case errors.Is(err, usecase.ErrModelUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		default:
			h.logger.ErrorContext(r.Context(), "prediction failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
