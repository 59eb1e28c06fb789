package usecase

import (
	"context"

	"github.com/den-cli/den/internal/domain"
)

// GetCredentialInput contains the parameters for reading a credential.
type GetCredentialInput struct {
	Key string
}

// GetCredentialOutput contains a credential value.
type GetCredentialOutput struct {
	Value string
}

// GetCredential reads a secret from the credential store.
type GetCredential struct {
	creds domain.CredentialStore
}

// NewGetCredential creates a new GetCredential use case.
func NewGetCredential(creds domain.CredentialStore) *GetCredential {
	return &GetCredential{creds: creds}
}

// Execute returns the value stored under in.Key.
func (uc *GetCredential) Execute(_ context.Context, in GetCredentialInput) (*GetCredentialOutput, error) {
	value, err := uc.creds.Get(in.Key)
	if err != nil {
		return nil, err
	}
	return &GetCredentialOutput{Value: value}, nil
}
