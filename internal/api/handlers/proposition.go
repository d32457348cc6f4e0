package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/logoslab/internal/service"
	"github.com/go-chi/chi/v5"
)

type PropositionHandler struct {
	svc *service.ReasonService
}

func NewPropositionHandler(svc *service.ReasonService) *PropositionHandler {
	return &PropositionHandler{svc: svc}
}

type upsertPropositionRequest struct {
	Name       string `json:"name"`
	Value      string `json:"value,omitempty"`
	Relation   string `json:"relation,omitempty"`
	Antecedent string `json:"antecedent,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Consequent string `json:"consequent,omitempty"`
	Predicate  string `json:"predicate,omitempty"`
	Scope      string `json:"scope,omitempty"`
}

func (h *PropositionHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertPropositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prop, err := h.svc.Upsert(service.PropositionInput{
		Name:       req.Name,
		Value:      req.Value,
		Relation:   req.Relation,
		Antecedent: req.Antecedent,
		Subject:    req.Subject,
		Consequent: req.Consequent,
		Predicate:  req.Predicate,
		Scope:      req.Scope,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPropositionNameMissing),
			errors.Is(err, service.ErrInvalidTruthValue),
			errors.Is(err, service.ErrInvalidRelation),
			errors.Is(err, service.ErrInvalidScope),
			errors.Is(err, service.ErrRelationArgsMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to store proposition")
		}
		return
	}

	writeJSON(w, http.StatusCreated, prop)
}

func (h *PropositionHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	prop, err := h.svc.Get(name)
	if err != nil {
		if errors.Is(err, service.ErrPropositionNotFound) {
			writeError(w, http.StatusNotFound, "proposition not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get proposition")
		return
	}

	writeJSON(w, http.StatusOK, prop)
}

func (h *PropositionHandler) List(w http.ResponseWriter, r *http.Request) {
	props := h.svc.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"propositions": props,
		"count":        len(props),
	})
}

func (h *PropositionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.svc.Delete(name); err != nil {
		if errors.Is(err, service.ErrPropositionNotFound) {
			writeError(w, http.StatusNotFound, "proposition not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete proposition")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PropositionHandler) Trace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	steps := h.svc.Trace(name)
	writeJSON(w, http.StatusOK, map[string]any{
		"name":  name,
		"steps": steps,
		"count": len(steps),
	})
}

func (h *PropositionHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	conflicts, err := h.svc.Conflicts(name)
	if err != nil {
		if errors.Is(err, service.ErrPropositionNotFound) {
			writeError(w, http.StatusNotFound, "proposition not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get conflicts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":      name,
		"conflicts": conflicts,
		"count":     len(conflicts),
	})
}
