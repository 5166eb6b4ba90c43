package domain

import "testing"

func TestParseUserUpdate_FirstMatchWins(t *testing.T) {
	testCases := []struct {
		name   string
		fields UserUpdateFields
		want   UserUpdate
	}{
		{
			name:   "clear beats everything",
			fields: UserUpdateFields{ClearPlaid: true, PlaidAccessToken: "tok", SelectedAccountID: "acc"},
			want:   ClearLink{},
		},
		{
			name:   "token beats selection",
			fields: UserUpdateFields{PlaidAccessToken: "tok", SelectedAccountID: "acc"},
			want:   SetAccessToken{Token: "tok"},
		},
		{
			name:   "selection only",
			fields: UserUpdateFields{SelectedAccountID: "acc"},
			want:   SetSelectedAccount{AccountID: "acc"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseUserUpdate(tc.fields)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestParseUserUpdate_Empty(t *testing.T) {
	_, err := ParseUserUpdate(UserUpdateFields{})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@X.com "); got != "a@x.com" {
		t.Errorf("NormalizeEmail = %q, want a@x.com", got)
	}
}
