package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/logoslab/internal/service"
)

type RulesetHandler struct {
	svc *service.ReasonService
}

func NewRulesetHandler(svc *service.ReasonService) *RulesetHandler {
	return &RulesetHandler{svc: svc}
}

type loadRulesetRequest struct {
	Source string `json:"source"`
}

// LoadAssumptions ingests assumptions-format DSL text, e.g.
// "n, implies(big-bang, occurred, microwave-radiation, present)".
// Parsing is lenient: malformed lines are logged and skipped.
func (h *RulesetHandler) LoadAssumptions(w http.ResponseWriter, r *http.Request) {
	h.load(w, r, h.svc.LoadAssumptions)
}

// LoadFacts ingests facts-format DSL text, e.g. "p", "!q", "t = p && q".
func (h *RulesetHandler) LoadFacts(w http.ResponseWriter, r *http.Request) {
	h.load(w, r, h.svc.LoadFacts)
}

func (h *RulesetHandler) load(w http.ResponseWriter, r *http.Request, loadFn func(string) error) {
	var req loadRulesetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Source == "" {
		writeError(w, http.StatusBadRequest, "source is required")
		return
	}

	if err := loadFn(req.Source); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load ruleset")
		return
	}

	stats := h.svc.Stats()
	writeJSON(w, http.StatusOK, stats)
}
