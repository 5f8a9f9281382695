package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"aruskas/internal/core"
	"aruskas/internal/log"
	"aruskas/internal/money"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type (
	transactionRequest struct {
		Name              string `json:"name" validate:"required"`
		Type              string `json:"type" validate:"required,oneof=cash-in cash-out"`
		PlannedDate       string `json:"plannedDate" validate:"required,datetime=2006-01-02"`
		RealizationDate   string `json:"realizationDate" validate:"omitempty,datetime=2006-01-02"`
		Description       string `json:"description"`
		Confirmed         bool   `json:"confirmed"`
		PlannedAmount     int64  `json:"plannedAmount" validate:"gte=0"`
		RealizationAmount int64  `json:"realizationAmount" validate:"gte=0"`
	}

	loginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	transactionView struct {
		ID                    string `json:"id"`
		Name                  string `json:"name"`
		Type                  string `json:"type"`
		PlannedDate           string `json:"plannedDate"`
		RealizationDate       string `json:"realizationDate,omitempty"`
		Description           string `json:"description"`
		Confirmed             bool   `json:"confirmed"`
		PlannedAmount         int64  `json:"plannedAmount"`
		PlannedAmountText     string `json:"plannedAmountText"`
		RealizationAmount     int64  `json:"realizationAmount"`
		RealizationAmountText string `json:"realizationAmountText"`
	}

	overviewView struct {
		Year            int    `json:"year"`
		Month           int    `json:"month"`
		Count           int    `json:"count"`
		Confirmed       int    `json:"confirmed"`
		PlannedInText   string `json:"plannedIn"`
		PlannedOutText  string `json:"plannedOut"`
		RealizedInText  string `json:"realizedIn"`
		RealizedOutText string `json:"realizedOut"`
		NetText         string `json:"net"`
	}
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.flows.FetchAll(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load transactions for dashboard", log.FieldError, err)
	}

	f := core.CurrentMonth(s.now())
	list := s.flows.Transactions()
	overview := core.Summarize(list, f)

	writeJSON(w, http.StatusOK, map[string]any{
		"overview":     viewOverview(overview),
		"transactions": viewTransactions(f.Apply(list)),
		"error":        s.flows.Err(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.flows.FetchAll(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load transactions for report", log.FieldError, err)
	}

	f, err := s.filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list := s.flows.Transactions()
	writeJSON(w, http.StatusOK, map[string]any{
		"filter": map[string]any{
			"month": int(f.Month),
			"year":  f.Year,
			"field": string(f.Field),
		},
		"overview":     viewOverview(core.Summarize(list, f)),
		"transactions": viewTransactions(f.Apply(list)),
	})
}

// filterFromQuery reads month, year and dateField parameters, falling
// back to the current month for anything omitted.
func (s *Server) filterFromQuery(r *http.Request) (core.Filter, error) {
	f := core.CurrentMonth(s.now())

	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return core.Filter{}, errors.New("month must be a number between 1 and 12")
		}
		f.Month = time.Month(m)
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			return core.Filter{}, errors.New("year must be a positive number")
		}
		f.Year = y
	}
	if raw := r.URL.Query().Get("dateField"); raw != "" {
		field := core.DateField(raw)
		if !field.IsValid() {
			return core.Filter{}, errors.New("dateField must be 'planned' or 'realized'")
		}
		f.Field = field
	}
	return f, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeTransaction(w, r)
	if !ok {
		return
	}

	created, err := s.flows.Add(r.Context(), req.toTransaction(""))
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to save transaction")
		return
	}
	writeJSON(w, http.StatusCreated, viewTransaction(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := s.decodeTransaction(w, r)
	if !ok {
		return
	}

	if err := s.flows.Update(r.Context(), id, req.toTransaction(id)); err != nil {
		writeError(w, http.StatusBadGateway, "failed to update transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.flows.Remove(r.Context(), id); err != nil {
		writeError(w, http.StatusBadGateway, "failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotification(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.notifier.Snapshot())
}

func (s *Server) handleLoginPage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	ok, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusBadGateway, "login check failed")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "wrong username or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to clear session on logout", log.FieldError, err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) decodeTransaction(w http.ResponseWriter, r *http.Request) (transactionRequest, bool) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return req, false
	}
	return req, true
}

func (req transactionRequest) toTransaction(id string) core.Transaction {
	planned, _ := time.Parse(core.DateLayout, req.PlannedDate)
	var realized time.Time
	if req.RealizationDate != "" {
		realized, _ = time.Parse(core.DateLayout, req.RealizationDate)
	}
	return core.Transaction{
		ID:                id,
		Name:              req.Name,
		Type:              core.FlowType(req.Type),
		PlannedDate:       planned,
		RealizationDate:   realized,
		Description:       req.Description,
		Confirmed:         req.Confirmed,
		PlannedAmount:     req.PlannedAmount,
		RealizationAmount: req.RealizationAmount,
	}
}

func viewTransaction(t core.Transaction) transactionView {
	v := transactionView{
		ID:                    t.ID,
		Name:                  t.Name,
		Type:                  string(t.Type),
		PlannedDate:           t.PlannedDate.Format(core.DateLayout),
		Description:           t.Description,
		Confirmed:             t.Confirmed,
		PlannedAmount:         t.PlannedAmount,
		PlannedAmountText:     money.Format(t.PlannedAmount),
		RealizationAmount:     t.RealizationAmount,
		RealizationAmountText: money.Format(t.RealizationAmount),
	}
	if !t.RealizationDate.IsZero() {
		v.RealizationDate = t.RealizationDate.Format(core.DateLayout)
	}
	return v
}

func viewTransactions(list []core.Transaction) []transactionView {
	out := make([]transactionView, 0, len(list))
	for _, t := range list {
		out = append(out, viewTransaction(t))
	}
	return out
}

func viewOverview(o core.MonthOverview) overviewView {
	return overviewView{
		Year:            o.Year,
		Month:           int(o.Month),
		Count:           o.Count,
		Confirmed:       o.Confirmed,
		PlannedInText:   money.Format(o.PlannedIn),
		PlannedOutText:  money.Format(o.PlannedOut),
		RealizedInText:  money.Format(o.RealizedIn),
		RealizedOutText: money.Format(o.RealizedOut),
		NetText:         money.Format(o.Net()),
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return "invalid field " + first.Field()
	}
	return "invalid request"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
