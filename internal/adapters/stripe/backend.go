package stripe

import (
	stripesdk "github.com/stripe/stripe-go/v79"
	stripeclient "github.com/stripe/stripe-go/v79/client"
)

// backend is the slice of the Stripe API the processor client uses. List
// calls drain the SDK iterator up to limit.
type backend interface {
	ListCustomers(params *stripesdk.CustomerListParams, limit int) ([]*stripesdk.Customer, error)
	NewCustomer(params *stripesdk.CustomerParams) (*stripesdk.Customer, error)
	NewBankAccount(params *stripesdk.BankAccountParams) (*stripesdk.BankAccount, error)
	ListBankAccounts(params *stripesdk.BankAccountListParams, limit int) ([]*stripesdk.BankAccount, error)
	NewCharge(params *stripesdk.ChargeParams) (*stripesdk.Charge, error)
	ListCharges(params *stripesdk.ChargeListParams, limit int) ([]*stripesdk.Charge, error)
	NewPaymentIntent(params *stripesdk.PaymentIntentParams) (*stripesdk.PaymentIntent, error)
}

// sdkBackend uses a per-instance client.API rather than the package-level key.
type sdkBackend struct {
	api *stripeclient.API
}

// newSDKBackend talks to api.stripe.com unless backends says otherwise.
func newSDKBackend(secretKey string, backends *stripesdk.Backends) *sdkBackend {
	return &sdkBackend{api: stripeclient.New(secretKey, backends)}
}

func (b *sdkBackend) ListCustomers(params *stripesdk.CustomerListParams, limit int) ([]*stripesdk.Customer, error) {
	out := []*stripesdk.Customer{}
	it := b.api.Customers.List(params)
	for len(out) < limit && it.Next() {
		out = append(out, it.Customer())
	}
	return out, it.Err()
}

func (b *sdkBackend) NewCustomer(params *stripesdk.CustomerParams) (*stripesdk.Customer, error) {
	return b.api.Customers.New(params)
}

func (b *sdkBackend) NewBankAccount(params *stripesdk.BankAccountParams) (*stripesdk.BankAccount, error) {
	return b.api.BankAccounts.New(params)
}

func (b *sdkBackend) ListBankAccounts(params *stripesdk.BankAccountListParams, limit int) ([]*stripesdk.BankAccount, error) {
	out := []*stripesdk.BankAccount{}
	it := b.api.BankAccounts.List(params)
	for len(out) < limit && it.Next() {
		out = append(out, it.BankAccount())
	}
	return out, it.Err()
}

func (b *sdkBackend) NewCharge(params *stripesdk.ChargeParams) (*stripesdk.Charge, error) {
	return b.api.Charges.New(params)
}

func (b *sdkBackend) ListCharges(params *stripesdk.ChargeListParams, limit int) ([]*stripesdk.Charge, error) {
	out := []*stripesdk.Charge{}
	it := b.api.Charges.List(params)
	for len(out) < limit && it.Next() {
		out = append(out, it.Charge())
	}
	return out, it.Err()
}

func (b *sdkBackend) NewPaymentIntent(params *stripesdk.PaymentIntentParams) (*stripesdk.PaymentIntent, error) {
	return b.api.PaymentIntents.New(params)
}
