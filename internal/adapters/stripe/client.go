package stripe

import (
	"context"
	"errors"
	"time"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	"github.com/rs/zerolog"
	stripesdk "github.com/stripe/stripe-go/v79"
)

// client implements ports.ProcessorPort.
type client struct {
	api      backend
	currency string
	log      zerolog.Logger
}

var _ ports.ProcessorPort = (*client)(nil)

func NewClient(secretKey, currency string, baseLogger *zerolog.Logger) ports.ProcessorPort {
	return newClient(newSDKBackend(secretKey, nil), currency, baseLogger)
}

func newClient(api backend, currency string, baseLogger *zerolog.Logger) *client {
	return &client{
		api:      api,
		currency: currency,
		log:      baseLogger.With().Str("component", "stripe_client").Logger(),
	}
}

// ResolveCustomer never creates a second customer for an email that already
// has one on the processor side.
func (c *client) ResolveCustomer(ctx context.Context, email string, storedID *string) (string, error) {
	// 1. Stored on the user record
	if storedID != nil && *storedID != "" {
		return *storedID, nil
	}

	// 2. Existing customer with this email
	list := &stripesdk.CustomerListParams{Email: stripesdk.String(email)}
	list.Limit = stripesdk.Int64(1)
	list.Context = ctx
	found, err := c.api.ListCustomers(list, 1)
	if err != nil {
		return "", c.wrap("customer_list", err)
	}
	if len(found) > 0 {
		c.log.Info().Str("email", email).Str("customer_id", found[0].ID).Msg("Found existing customer")
		return found[0].ID, nil
	}

	// 3. New customer
	params := &stripesdk.CustomerParams{Email: stripesdk.String(email)}
	params.Context = ctx
	cust, err := c.api.NewCustomer(params)
	if err != nil {
		return "", c.wrap("customer_create", err)
	}
	c.log.Info().Str("email", email).Str("customer_id", cust.ID).Msg("Created customer")
	return cust.ID, nil
}

func (c *client) AttachBankSource(ctx context.Context, customerID, bankToken string) (string, error) {
	params := &stripesdk.BankAccountParams{
		Customer: stripesdk.String(customerID),
		Token:    stripesdk.String(bankToken),
	}
	params.Context = ctx
	ba, err := c.api.NewBankAccount(params)
	if err == nil {
		return ba.ID, nil
	}
	if !isBankAccountExists(err) {
		return "", c.wrap("bank_account_create", err)
	}

	// Already attached: reuse the customer's first bank source.
	c.log.Info().Str("customer_id", customerID).Msg("Bank account already attached, reusing existing source")
	list := &stripesdk.BankAccountListParams{Customer: stripesdk.String(customerID)}
	list.Context = ctx
	existing, lerr := c.api.ListBankAccounts(list, 1)
	if lerr != nil {
		return "", c.wrap("bank_account_list", lerr)
	}
	if len(existing) == 0 {
		return "", c.wrap("bank_account_create", err)
	}
	return existing[0].ID, nil
}

func (c *client) Charge(ctx context.Context, p ports.ChargeParams) (*domain.Charge, error) {
	params := &stripesdk.ChargeParams{
		Amount:      stripesdk.Int64(p.Amount),
		Currency:    stripesdk.String(c.currency),
		Customer:    stripesdk.String(p.CustomerID),
		Description: stripesdk.String(p.Description),
	}
	if err := params.SetSource(p.SourceID); err != nil {
		return nil, err
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}
	params.Context = ctx

	ch, err := c.api.NewCharge(params)
	if err != nil {
		return nil, c.wrap("charge_create", err)
	}
	return toCharge(ch), nil
}

func (c *client) ListCharges(ctx context.Context, customerID string, limit int) ([]domain.Charge, error) {
	params := &stripesdk.ChargeListParams{Customer: stripesdk.String(customerID)}
	params.Limit = stripesdk.Int64(int64(limit))
	params.Context = ctx

	charges, err := c.api.ListCharges(params, limit)
	if err != nil {
		return nil, c.wrap("charge_list", err)
	}
	out := make([]domain.Charge, 0, len(charges))
	for _, ch := range charges {
		out = append(out, *toCharge(ch))
	}
	return out, nil
}

func (c *client) CreateCardIntent(ctx context.Context, p ports.CardIntentParams) (*domain.CardIntent, error) {
	params := &stripesdk.PaymentIntentParams{
		Amount:             stripesdk.Int64(p.Amount),
		Currency:           stripesdk.String(c.currency),
		Customer:           stripesdk.String(p.CustomerID),
		ReceiptEmail:       stripesdk.String(p.ReceiptEmail),
		Description:        stripesdk.String(p.Description),
		PaymentMethodTypes: stripesdk.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := c.api.NewPaymentIntent(params)
	if err != nil {
		return nil, c.wrap("payment_intent_create", err)
	}
	return &domain.CardIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func isBankAccountExists(err error) bool {
	var se *stripesdk.Error
	return errors.As(err, &se) && se.Code == stripesdk.ErrorCodeBankAccountExists
}

// wrap surfaces Stripe's own message so the caller can show it verbatim.
func (c *client) wrap(op string, err error) error {
	msg := ""
	var se *stripesdk.Error
	if errors.As(err, &se) {
		msg = se.Msg
		c.log.Error().Str("op", op).Str("stripe_code", string(se.Code)).Str("request_id", se.RequestID).
			Int("status", se.HTTPStatusCode).Msg(se.Msg)
	} else {
		c.log.Error().Err(err).Str("op", op).Msg("Stripe request failed")
	}
	return domain.NewUpstreamError("stripe", op, msg, err)
}

func toCharge(ch *stripesdk.Charge) *domain.Charge {
	return &domain.Charge{
		ID:        ch.ID,
		Amount:    ch.Amount,
		Currency:  string(ch.Currency),
		Status:    string(ch.Status),
		CreatedAt: time.Unix(ch.Created, 0).UTC(),
	}
}
