package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/den-cli/den/internal/domain"
)

// SetCredentialInput contains the parameters for storing a credential.
type SetCredentialInput struct {
	Key   string
	Value string
}

// SetCredentialOutput contains the result of storing a credential.
type SetCredentialOutput struct {
	Replaced bool // A previous value was overwritten
}

// SetCredential stores a secret in the credential store.
type SetCredential struct {
	creds  domain.CredentialStore
	logger *slog.Logger
}

// NewSetCredential creates a new SetCredential use case.
func NewSetCredential(creds domain.CredentialStore, logger *slog.Logger) *SetCredential {
	return &SetCredential{creds: creds, logger: logger}
}

// Execute stores in.Value under in.Key.
func (uc *SetCredential) Execute(_ context.Context, in SetCredentialInput) (*SetCredentialOutput, error) {
	key := strings.TrimSpace(in.Key)
	if key == "" {
		return nil, domain.ErrEmptyCredentialKey
	}

	keys, err := uc.creds.List()
	if err != nil {
		return nil, err
	}
	replaced := false
	for _, k := range keys {
		if k == key {
			replaced = true
			break
		}
	}

	if err := uc.creds.Set(key, in.Value); err != nil {
		return nil, err
	}
	uc.logger.Info("credential stored", "key", key, "replaced", replaced)
	return &SetCredentialOutput{Replaced: replaced}, nil
}
