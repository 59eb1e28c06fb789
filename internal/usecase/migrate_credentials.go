package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/den-cli/den/internal/domain"
)

// MigrateCredentialsInput contains the parameters for migrating credentials.
type MigrateCredentialsInput struct{}

// MigrateCredentialsOutput lists what happened to each source key.
type MigrateCredentialsOutput struct {
	Migrated []string // Copied into the target
	Skipped  []string // Already present in the target, left untouched
}

// MigrateCredentials moves credentials from one store into another.
type MigrateCredentials struct {
	source domain.CredentialStore
	target domain.CredentialStore
	logger *slog.Logger
}

// NewMigrateCredentials creates a new MigrateCredentials use case.
func NewMigrateCredentials(source, target domain.CredentialStore, logger *slog.Logger) *MigrateCredentials {
	return &MigrateCredentials{
		source: source,
		target: target,
		logger: logger,
	}
}

// Execute copies every source key that the target does not hold yet, then
// deletes all handled keys from the source. Any failure before the copy
// completes leaves the source untouched.
func (uc *MigrateCredentials) Execute(_ context.Context, _ MigrateCredentialsInput) (*MigrateCredentialsOutput, error) {
	if uc.source == nil || uc.target == nil {
		return nil, errors.New("credential stores not available for migration")
	}

	keys, err := uc.source.List()
	if err != nil {
		return nil, fmt.Errorf("list source credentials: %w", err)
	}

	out := &MigrateCredentialsOutput{Migrated: []string{}, Skipped: []string{}}
	for _, key := range keys {
		_, err := uc.target.Get(key)
		switch {
		case err == nil:
			uc.logger.Info("credential already in target, skipping", "key", key)
			out.Skipped = append(out.Skipped, key)
			continue
		case !errors.Is(err, domain.ErrCredentialNotFound):
			return nil, fmt.Errorf("check target credential %q: %w", key, err)
		}

		value, err := uc.source.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read source credential %q: %w", key, err)
		}
		if err := uc.target.Set(key, value); err != nil {
			return nil, fmt.Errorf("store credential %q: %w", key, err)
		}
		uc.logger.Info("credential migrated", "key", key)
		out.Migrated = append(out.Migrated, key)
	}

	for _, key := range keys {
		if err := uc.source.Delete(key); err != nil {
			return nil, fmt.Errorf("remove migrated credential %q: %w", key, err)
		}
	}

	uc.logger.Info("credential migration complete", "migrated", len(out.Migrated), "skipped", len(out.Skipped))
	return out, nil
}
