package usecase

import (
	"context"
	"log/slog"

	"github.com/den-cli/den/internal/domain"
)

// DeleteCredentialInput contains the parameters for deleting a credential.
type DeleteCredentialInput struct {
	Key string
}

// DeleteCredentialOutput contains the result of deleting a credential.
type DeleteCredentialOutput struct{}

// DeleteCredential removes a secret from the credential store.
type DeleteCredential struct {
	creds  domain.CredentialStore
	logger *slog.Logger
}

// NewDeleteCredential creates a new DeleteCredential use case.
func NewDeleteCredential(creds domain.CredentialStore, logger *slog.Logger) *DeleteCredential {
	return &DeleteCredential{creds: creds, logger: logger}
}

// Execute removes in.Key. A missing key is reported as ErrCredentialNotFound.
func (uc *DeleteCredential) Execute(_ context.Context, in DeleteCredentialInput) (*DeleteCredentialOutput, error) {
	if _, err := uc.creds.Get(in.Key); err != nil {
		return nil, err
	}
	if err := uc.creds.Delete(in.Key); err != nil {
		return nil, err
	}
	uc.logger.Info("credential deleted", "key", in.Key)
	return &DeleteCredentialOutput{}, nil
}
