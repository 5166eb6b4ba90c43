package httpapi

import (
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"

	"github.com/shopspring/decimal"
)

type emailRequest struct {
	Email string `json:"email"`
}

type userPatchRequest struct {
	Email             string `json:"email"`
	PlaidAccessToken  string `json:"plaid_access_token"`
	SelectedAccountID string `json:"selected_account_id"`
	ClearPlaid        bool   `json:"clear_plaid"`
}

type exchangeRequest struct {
	Email       string `json:"email"`
	PublicToken string `json:"public_token"`
}

type paymentRequest struct {
	Email     string          `json:"email"`
	Amount    decimal.Decimal `json:"amount"`
	AccountID string          `json:"account_id"`
}

type userResponse struct {
	Email             string  `json:"email"`
	HasBankLinked     bool    `json:"hasBankLinked"`
	SelectedAccountID *string `json:"selectedAccountId"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{
		Email:             u.Email,
		HasBankLinked:     u.HasBankLinked(),
		SelectedAccountID: u.SelectedAccountID,
	}
}

type accountResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Mask    string   `json:"mask"`
	Type    string   `json:"type"` // The subtype, e.g. checking
	Balance *float64 `json:"balance"`
}

type accountsResponse struct {
	Accounts          []accountResponse `json:"accounts"`
	SelectedAccountID string            `json:"selectedAccountId"`
}

type paymentResponse struct {
	Success  bool    `json:"success"`
	ChargeID string  `json:"charge_id"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status"`
}

type cardIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// isoMillis matches the millisecond ISO-8601 form browsers produce.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type historyEntry struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
}

type historyResponse struct {
	Payments []historyEntry `json:"payments"`
}

func newHistoryResponse(records []domain.PaymentRecord) historyResponse {
	out := historyResponse{Payments: make([]historyEntry, 0, len(records))}
	for _, r := range records {
		out.Payments = append(out.Payments, historyEntry{
			ID:     r.ID,
			Amount: r.Amount.InexactFloat64(),
			Date:   r.Date.UTC().Format(isoMillis),
			Status: r.Status,
		})
	}
	return out
}
