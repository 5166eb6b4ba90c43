package domain

// UserUpdate is one of ClearLink, SetAccessToken or SetSelectedAccount.
// The unexported method keeps the set closed.
type UserUpdate interface {
	isUserUpdate()
}

// ClearLink nulls the access token and selected account together.
type ClearLink struct{}

// SetAccessToken stores a durable aggregation access token.
type SetAccessToken struct {
	Token string
}

// SetSelectedAccount records the funding account chosen by the user.
type SetSelectedAccount struct {
	AccountID string
}

func (ClearLink) isUserUpdate()          {}
func (SetAccessToken) isUserUpdate()     {}
func (SetSelectedAccount) isUserUpdate() {}

// UserUpdateFields is the loose wire shape of a PATCH /user body.
type UserUpdateFields struct {
	ClearPlaid        bool
	PlaidAccessToken  string
	SelectedAccountID string
}

// ParseUserUpdate picks the first populated field in the order
// clear, access token, selected account.
func ParseUserUpdate(f UserUpdateFields) (UserUpdate, error) {
	switch {
	case f.ClearPlaid:
		return ClearLink{}, nil
	case f.PlaidAccessToken != "":
		return SetAccessToken{Token: f.PlaidAccessToken}, nil
	case f.SelectedAccountID != "":
		return SetSelectedAccount{AccountID: f.SelectedAccountID}, nil
	default:
		return nil, NewValidationError("No update data provided")
	}
}
