package usecase

import (
	"context"

	"github.com/den-cli/den/internal/domain"
)

// ListCredentialsInput contains the parameters for listing credentials.
type ListCredentialsInput struct{}

// ListCredentialsOutput contains the stored credential keys.
type ListCredentialsOutput struct {
	Keys []string // Sorted
}

// ListCredentials lists the keys in the credential store.
type ListCredentials struct {
	creds domain.CredentialStore
}

// NewListCredentials creates a new ListCredentials use case.
func NewListCredentials(creds domain.CredentialStore) *ListCredentials {
	return &ListCredentials{creds: creds}
}

// Execute returns the stored keys. Values are never returned.
func (uc *ListCredentials) Execute(_ context.Context, _ ListCredentialsInput) (*ListCredentialsOutput, error) {
	keys, err := uc.creds.List()
	if err != nil {
		return nil, err
	}
	return &ListCredentialsOutput{Keys: keys}, nil
}
