package plaid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	plaidsdk "github.com/plaid/plaid-go/v29/plaid"
	"github.com/rs/zerolog"
)

// Config is what the client needs to reach Plaid.
type Config struct {
	ClientID    string
	Secret      string
	Env         string // sandbox | production
	ClientName  string
	RedirectURI string // Optional OAuth continuation

	// BaseURL overrides the environment host; used by tests.
	BaseURL    string
	HTTPClient *http.Client
}

// client implements ports.AggregationPort.
type client struct {
	api *plaidsdk.APIClient
	cfg Config
	log zerolog.Logger
}

var _ ports.AggregationPort = (*client)(nil)

func NewClient(cfg Config, baseLogger *zerolog.Logger) (ports.AggregationPort, error) {
	env, err := environment(cfg.Env)
	if err != nil {
		return nil, err
	}

	conf := plaidsdk.NewConfiguration()
	conf.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	conf.AddDefaultHeader("PLAID-SECRET", cfg.Secret)
	conf.UseEnvironment(env)
	if cfg.BaseURL != "" {
		conf.Servers = plaidsdk.ServerConfigurations{{URL: cfg.BaseURL}}
	}
	if cfg.HTTPClient != nil {
		conf.HTTPClient = cfg.HTTPClient
	}

	return &client{
		api: plaidsdk.NewAPIClient(conf),
		cfg: cfg,
		log: baseLogger.With().Str("component", "plaid_client").Str("env", cfg.Env).Logger(),
	}, nil
}

func environment(name string) (plaidsdk.Environment, error) {
	switch name {
	case "sandbox", "":
		return plaidsdk.Sandbox, nil
	case "production":
		return plaidsdk.Production, nil
	default:
		return "", fmt.Errorf("unknown plaid environment %q", name)
	}
}

func (c *client) CreateLinkSession(ctx context.Context, clientUserID string) (string, error) {
	user := plaidsdk.LinkTokenCreateRequestUser{ClientUserId: clientUserID}
	req := plaidsdk.NewLinkTokenCreateRequest(
		c.cfg.ClientName,
		"en",
		[]plaidsdk.CountryCode{plaidsdk.COUNTRYCODE_US},
		user,
	)
	req.SetProducts([]plaidsdk.Products{plaidsdk.PRODUCTS_AUTH})
	req.SetAccountFilters(plaidsdk.LinkTokenAccountFilters{
		Depository: plaidsdk.NewDepositoryFilter([]plaidsdk.DepositoryAccountSubtype{
			plaidsdk.DEPOSITORYACCOUNTSUBTYPE_CHECKING,
			plaidsdk.DEPOSITORYACCOUNTSUBTYPE_SAVINGS,
		}),
	})
	if c.cfg.RedirectURI != "" {
		req.SetRedirectUri(c.cfg.RedirectURI)
	}

	resp, _, err := c.api.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		return "", c.wrap("link_token_create", err)
	}
	c.log.Debug().Str("request_id", resp.GetRequestId()).Msg("Link token created")
	return resp.GetLinkToken(), nil
}

func (c *client) ExchangeSession(ctx context.Context, publicToken string) (*ports.ExchangeResult, error) {
	req := plaidsdk.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.api.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return nil, c.wrap("item_public_token_exchange", err)
	}
	return &ports.ExchangeResult{
		AccessToken: resp.GetAccessToken(),
		ItemID:      resp.GetItemId(),
	}, nil
}

func (c *client) ListAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error) {
	req := plaidsdk.NewAccountsGetRequest(accessToken)
	resp, _, err := c.api.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*req).Execute()
	if err != nil {
		return nil, c.wrap("accounts_get", err)
	}
	return domain.DepositoryOnly(toBankAccounts(resp.GetAccounts())), nil
}

func (c *client) ListAuthAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error) {
	req := plaidsdk.NewAuthGetRequest(accessToken)
	resp, _, err := c.api.PlaidApi.AuthGet(ctx).AuthGetRequest(*req).Execute()
	if err != nil {
		return nil, c.wrap("auth_get", err)
	}
	return toBankAccounts(resp.GetAccounts()), nil
}

func (c *client) CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error) {
	req := plaidsdk.NewProcessorStripeBankAccountTokenCreateRequest(accessToken, accountID)
	resp, _, err := c.api.PlaidApi.ProcessorStripeBankAccountTokenCreate(ctx).
		ProcessorStripeBankAccountTokenCreateRequest(*req).Execute()
	if err != nil {
		return "", c.wrap("processor_stripe_bank_account_token_create", err)
	}
	return resp.GetStripeBankAccountToken(), nil
}

// wrap keeps Plaid's own error_message when the body carries one.
func (c *client) wrap(op string, err error) error {
	msg, code := "", ""
	if pe, perr := plaidsdk.ToPlaidError(err); perr == nil {
		msg = pe.GetErrorMessage()
		code = pe.GetErrorCode()
	}
	c.log.Error().Err(err).Str("op", op).Str("plaid_code", code).Msg("Plaid request failed")
	return domain.NewUpstreamError("plaid", op, msg, err)
}

func toBankAccounts(in []plaidsdk.AccountBase) []domain.BankAccount {
	out := make([]domain.BankAccount, 0, len(in))
	for _, a := range in {
		out = append(out, toBankAccount(a))
	}
	return out
}

func toBankAccount(a plaidsdk.AccountBase) domain.BankAccount {
	balances := a.GetBalances()
	available, _ := balances.GetAvailableOk()
	current, _ := balances.GetCurrentOk()
	return domain.BankAccount{
		ID:      a.GetAccountId(),
		Name:    a.GetName(),
		Mask:    a.GetMask(),
		Type:    string(a.GetType()),
		Subtype: string(a.GetSubtype()),
		Balance: domain.PreferredBalance(available, current),
	}
}
