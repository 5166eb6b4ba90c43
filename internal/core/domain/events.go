package domain

import "github.com/shopspring/decimal"

// Event topics published on the EventBus.
const (
	TopicBankLinked       = "bank.linked"
	TopicPaymentSucceeded = "payment.succeeded"
	TopicPaymentFailed    = "payment.failed"
)

// BankLinkedEvent is published after a successful token exchange.
type BankLinkedEvent struct {
	Email  string
	ItemID string
}

// PaymentEvent is published after every payment attempt that reached a
// processor or aggregation call.
type PaymentEvent struct {
	Email    string
	Method   PaymentMethod
	Amount   decimal.Decimal
	ChargeID string
	Status   string
	Reason   string // Upstream message on failure
}
