package domain

// AccountTypeDepository is the only account type offered for bank debits.
const AccountTypeDepository = "depository"

// BankAccount is a single account under a linked bank item.
type BankAccount struct {
	ID      string
	Name    string
	Mask    string
	Type    string
	Subtype string
	Balance *float64 // Available if reported, else current
}

// PreferredBalance picks the available balance, falling back to current.
func PreferredBalance(available, current *float64) *float64 {
	if available != nil {
		return available
	}
	return current
}

// DepositoryOnly drops every account that is not checking/savings style.
func DepositoryOnly(accounts []BankAccount) []BankAccount {
	out := make([]BankAccount, 0, len(accounts))
	for _, a := range accounts {
		if a.Type == AccountTypeDepository {
			out = append(out, a)
		}
	}
	return out
}

// PickAccount returns the account with the given id, or the first account
// when id is empty or unknown. ok is false only when accounts is empty.
func PickAccount(accounts []BankAccount, id string) (BankAccount, bool) {
	if len(accounts) == 0 {
		return BankAccount{}, false
	}
	if id != "" {
		for _, a := range accounts {
			if a.ID == id {
				return a, true
			}
		}
	}
	return accounts[0], true
}
