package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/logoslab/internal/engine"
	"github.com/Harshitk-cp/logoslab/internal/service"
)

type InferenceHandler struct {
	svc *service.ReasonService
}

func NewInferenceHandler(svc *service.ReasonService) *InferenceHandler {
	return &InferenceHandler{svc: svc}
}

// Deduce runs the fixed-point solver over the whole knowledge base.
func (h *InferenceHandler) Deduce(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Deduce()
	if err != nil {
		// A malformed retained expression is the only failure mode; it
		// indicates a construction bug, not bad client input to this call.
		if errors.Is(err, engine.ErrInsufficientOperands) || errors.Is(err, engine.ErrUnbalancedExpression) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "deduction failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Reset discards the entire knowledge base.
func (h *InferenceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.svc.Reset()
	w.WriteHeader(http.StatusNoContent)
}
