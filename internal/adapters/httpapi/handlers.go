package httpapi

import (
	"net/http"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const idempotencyHeader = "Idempotency-Key"

type handlers struct {
	deps Deps
}

// --- System ---

func (h *handlers) initSchema(c *gin.Context) {
	if err := h.deps.Migrator.Migrate(c.Request.Context()); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Database init failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize database", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Database initialized"})
}

func (h *handlers) healthz(c *gin.Context) {
	if h.deps.Health != nil {
		if err := h.deps.Health.Ping(c.Request.Context()); err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Users ---

func (h *handlers) getUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, "Email is required")
		return
	}
	user, err := h.deps.Users.Get(c.Request.Context(), email)
	if err != nil {
		fail(c, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlers) createUser(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	user, err := h.deps.Users.GetOrCreate(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlers) patchUser(c *gin.Context) {
	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if domain.NormalizeEmail(req.Email) == "" {
		badRequest(c, "Email is required")
		return
	}
	update, err := domain.ParseUserUpdate(domain.UserUpdateFields{
		ClearPlaid:        req.ClearPlaid,
		PlaidAccessToken:  req.PlaidAccessToken,
		SelectedAccountID: req.SelectedAccountID,
	})
	if err != nil {
		fail(c, err, "Failed to update user")
		return
	}
	user, err := h.deps.Users.Update(c.Request.Context(), req.Email, update)
	if err != nil {
		fail(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// --- Linking ---

func (h *handlers) linkSession(c *gin.Context) {
	token, err := h.deps.Links.CreateLinkSession(c.Request.Context(), c.Query("email"))
	if err != nil {
		fail(c, err, "Failed to create link token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"link_token": token})
}

func (h *handlers) exchangeToken(c *gin.Context) {
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	res, err := h.deps.Links.ExchangeToken(c.Request.Context(), req.Email, req.PublicToken)
	if err != nil {
		fail(c, err, "Failed to exchange token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item_id": res.ItemID})
}

func (h *handlers) accounts(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	list, err := h.deps.Links.ListAccounts(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, err, "Failed to get accounts")
		return
	}

	resp := accountsResponse{
		Accounts:          make([]accountResponse, 0, len(list.Accounts)),
		SelectedAccountID: list.SelectedAccountID,
	}
	for _, a := range list.Accounts {
		resp.Accounts = append(resp.Accounts, accountResponse{
			ID:      a.ID,
			Name:    a.Name,
			Mask:    a.Mask,
			Type:    a.Subtype,
			Balance: a.Balance,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// --- Payments ---

func (h *handlers) createPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid amount")
		return
	}
	res, err := h.deps.Payments.CreateBankPayment(c.Request.Context(), domain.BankPaymentRequest{
		Email:          req.Email,
		Amount:         req.Amount,
		AccountID:      req.AccountID,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		// A missing link is a client problem here, not a missing resource.
		failWithNotFound(c, err, "Payment failed", http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, paymentResponse{
		Success:  true,
		ChargeID: res.ChargeID,
		Amount:   res.Amount.InexactFloat64(),
		Status:   res.Status,
	})
}

func (h *handlers) createCardIntent(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid amount")
		return
	}
	intent, err := h.deps.Payments.CreateCardIntent(c.Request.Context(), domain.CardIntentRequest{
		Email:  req.Email,
		Amount: req.Amount,
	})
	if err != nil {
		fail(c, err, "Failed to create payment intent")
		return
	}
	c.JSON(http.StatusOK, cardIntentResponse{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID})
}

func (h *handlers) paymentHistory(c *gin.Context) {
	email := c.Query("email")
	if domain.NormalizeEmail(email) == "" {
		c.JSON(http.StatusOK, historyResponse{Payments: []historyEntry{}})
		return
	}
	records, err := h.deps.Payments.History(c.Request.Context(), email)
	if err != nil {
		body := gin.H{"error": "Failed to fetch payment history", "payments": []historyEntry{}}
		if domain.IsUpstream(err) {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}
	c.JSON(http.StatusOK, newHistoryResponse(records))
}
