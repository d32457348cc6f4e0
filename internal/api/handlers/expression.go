package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/logoslab/internal/engine"
	"github.com/Harshitk-cp/logoslab/internal/parser"
	"github.com/Harshitk-cp/logoslab/internal/service"
)

type ExpressionHandler struct {
	svc *service.ReasonService
}

func NewExpressionHandler(svc *service.ReasonService) *ExpressionHandler {
	return &ExpressionHandler{svc: svc}
}

type createExpressionRequest struct {
	Target     string `json:"target"`
	Expression string `json:"expression"`
}

// Create parses an expression like "p && (q || !r)" against the current
// knowledge base and retains it for deduction. Operand values are
// snapshotted now, not read live later.
func (h *ExpressionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExpressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expr, err := h.svc.AddExpression(req.Target, req.Expression)
	if err != nil {
		writeExpressionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"target": expr.Target,
		"tokens": len(expr.Tokens),
	})
}

type evaluateRequest struct {
	Expression string `json:"expression"`
}

// Evaluate runs a one-shot evaluation without retaining the expression.
func (h *ExpressionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Evaluate(req.Expression)
	if err != nil {
		writeExpressionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"value": result})
}

func writeExpressionError(w http.ResponseWriter, err error) {
	var syntaxErr *parser.SyntaxError
	switch {
	case errors.Is(err, service.ErrExpressionTargetEmpty),
		errors.Is(err, service.ErrExpressionEmpty),
		errors.Is(err, engine.ErrInsufficientOperands),
		errors.Is(err, engine.ErrUnbalancedExpression),
		errors.As(err, &syntaxErr):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to process expression")
	}
}
