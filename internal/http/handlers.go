package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"cardledger/internal/core"
	applog "cardledger/internal/log"
)

type cardResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	Balance        string `json:"balance"`
	InitialBalance string `json:"initial_balance"`
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	CardID      int64  `json:"card_id"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

type recordTransactionResponse struct {
	Card        cardResponse        `json:"card"`
	Transaction transactionResponse `json:"transaction"`
}

type monthlySummaryResponse struct {
	Month    string `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Savings  string `json:"savings"`
}

type createCardRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Balance string `json:"balance"`
}

type recordTransactionRequest struct {
	CardID      int64  `json:"card_id"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

func toCardResponse(c core.Card) cardResponse {
	return cardResponse{
		ID:             c.ID,
		Name:           c.Name,
		Kind:           string(c.Kind),
		Balance:        c.Balance.String(),
		InitialBalance: c.InitialBalance.String(),
	}
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		CardID:      t.CardID,
		Kind:        string(t.Kind),
		Amount:      t.Amount.String(),
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date.Format("2006-01-02"),
	}
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.ledger.ListCards(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	card, err := s.ledger.CreateCard(r.Context(), req.Name, req.Kind, req.Balance)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCardResponse(card))
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	card, err := s.ledger.GetCard(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCardResponse(card))
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	if err := s.ledger.DeleteCard(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req recordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	card, transaction, err := s.ledger.RecordTransaction(r.Context(),
		req.CardID, req.Kind, req.Amount, req.Description, req.Category, req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordTransactionResponse{
		Card:        toCardResponse(card),
		Transaction: toTransactionResponse(transaction),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlyStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ledger.MonthlyStatistics(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]monthlySummaryResponse, 0, len(stats))
	for _, m := range stats {
		out = append(out, monthlySummaryResponse{
			Month:    m.Month,
			Income:   m.Income.String(),
			Expenses: m.Expenses.String(),
			Savings:  m.Savings.String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeError maps domain errors onto HTTP status codes: missing resources
// are 404, validation failures are 422, everything else is 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidCardKind),
		errors.Is(err, core.ErrInvalidTransactionKind),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyName):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
