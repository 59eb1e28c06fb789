package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/den-cli/den/internal/domain"
	"github.com/den-cli/den/internal/testutil"
	"github.com/den-cli/den/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCredential_Execute(t *testing.T) {
	t.Run("stores new key", func(t *testing.T) {
		creds := testutil.NewMockCredentialStore()

		uc := usecase.NewSetCredential(creds, testutil.NewDiscardLogger())
		out, err := uc.Execute(context.Background(), usecase.SetCredentialInput{Key: " github_token ", Value: "ghp_x"})

		require.NoError(t, err)
		assert.False(t, out.Replaced)
		assert.Equal(t, "ghp_x", creds.Secrets["github_token"])
	})

	t.Run("reports replacement", func(t *testing.T) {
		creds := testutil.NewMockCredentialStore()
		creds.Secrets["github_token"] = "old"

		uc := usecase.NewSetCredential(creds, testutil.NewDiscardLogger())
		out, err := uc.Execute(context.Background(), usecase.SetCredentialInput{Key: "github_token", Value: "new"})

		require.NoError(t, err)
		assert.True(t, out.Replaced)
		assert.Equal(t, "new", creds.Secrets["github_token"])
	})

	t.Run("rejects empty key", func(t *testing.T) {
		creds := testutil.NewMockCredentialStore()

		uc := usecase.NewSetCredential(creds, testutil.NewDiscardLogger())
		_, err := uc.Execute(context.Background(), usecase.SetCredentialInput{Key: "  ", Value: "x"})

		assert.ErrorIs(t, err, domain.ErrEmptyCredentialKey)
		assert.Empty(t, creds.Secrets)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		creds := testutil.NewMockCredentialStore()
		creds.SetErr = errors.New("keychain locked")

		uc := usecase.NewSetCredential(creds, testutil.NewDiscardLogger())
		_, err := uc.Execute(context.Background(), usecase.SetCredentialInput{Key: "k", Value: "v"})

		assert.ErrorContains(t, err, "keychain locked")
	})
}

func TestGetCredential_Execute(t *testing.T) {
	creds := testutil.NewMockCredentialStore()
	creds.Secrets["k"] = "v"
	uc := usecase.NewGetCredential(creds)

	out, err := uc.Execute(context.Background(), usecase.GetCredentialInput{Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, "v", out.Value)

	_, err = uc.Execute(context.Background(), usecase.GetCredentialInput{Key: "missing"})
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestDeleteCredential_Execute(t *testing.T) {
	t.Run("deletes existing key", func(t *testing.T) {
		creds := testutil.NewMockCredentialStore()
		creds.Secrets["k"] = "v"

		uc := usecase.NewDeleteCredential(creds, testutil.NewDiscardLogger())
		_, err := uc.Execute(context.Background(), usecase.DeleteCredentialInput{Key: "k"})

		require.NoError(t, err)
		assert.Empty(t, creds.Secrets)
	})

	t.Run("missing key is not found", func(t *testing.T) {
		creds := testutil.NewMockCredentialStore()

		uc := usecase.NewDeleteCredential(creds, testutil.NewDiscardLogger())
		_, err := uc.Execute(context.Background(), usecase.DeleteCredentialInput{Key: "k"})

		assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	})
}

func TestListCredentials_Execute(t *testing.T) {
	creds := testutil.NewMockCredentialStore()
	creds.Secrets["b"] = "2"
	creds.Secrets["a"] = "1"

	out, err := usecase.NewListCredentials(creds).Execute(context.Background(), usecase.ListCredentialsInput{})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Keys)
}

// =============================================================================
// MigrateCredentials Tests
// =============================================================================

func TestMigrateCredentials_Execute(t *testing.T) {
	// Setup
	source := testutil.NewMockCredentialStore()
	source.Secrets["api_key"] = "from-file"
	source.Secrets["github_token"] = "ghp_file"
	target := testutil.NewMockCredentialStore()
	target.Secrets["github_token"] = "ghp_keychain"

	// Execute
	uc := usecase.NewMigrateCredentials(source, target, testutil.NewDiscardLogger())
	out, err := uc.Execute(context.Background(), usecase.MigrateCredentialsInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"api_key"}, out.Migrated)
	assert.Equal(t, []string{"github_token"}, out.Skipped)
	assert.Equal(t, "from-file", target.Secrets["api_key"])
	assert.Equal(t, "ghp_keychain", target.Secrets["github_token"], "existing target value wins")
	assert.Empty(t, source.Secrets)
}

func TestMigrateCredentials_Execute_EmptySource(t *testing.T) {
	target := testutil.NewMockCredentialStore()

	uc := usecase.NewMigrateCredentials(testutil.NewMockCredentialStore(), target, testutil.NewDiscardLogger())
	out, err := uc.Execute(context.Background(), usecase.MigrateCredentialsInput{})

	require.NoError(t, err)
	assert.Empty(t, out.Migrated)
	assert.Empty(t, out.Skipped)
	assert.Empty(t, target.Secrets)
}

func TestMigrateCredentials_Execute_TargetFailureKeepsSource(t *testing.T) {
	source := testutil.NewMockCredentialStore()
	source.Secrets["api_key"] = "v"
	target := testutil.NewMockCredentialStore()
	target.SetErr = errors.New("keychain locked")

	uc := usecase.NewMigrateCredentials(source, target, testutil.NewDiscardLogger())
	_, err := uc.Execute(context.Background(), usecase.MigrateCredentialsInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "keychain locked")
	assert.Equal(t, "v", source.Secrets["api_key"])
}

func TestMigrateCredentials_Execute_TargetLookupError(t *testing.T) {
	source := testutil.NewMockCredentialStore()
	source.Secrets["api_key"] = "v"
	target := testutil.NewMockCredentialStore()
	target.GetErr = errors.New("security: interaction not allowed")

	uc := usecase.NewMigrateCredentials(source, target, testutil.NewDiscardLogger())
	_, err := uc.Execute(context.Background(), usecase.MigrateCredentialsInput{})

	require.Error(t, err)
	assert.Empty(t, target.Secrets)
	assert.Len(t, source.Secrets, 1)
}

func TestMigrateCredentials_Execute_NoStores(t *testing.T) {
	uc := usecase.NewMigrateCredentials(nil, testutil.NewMockCredentialStore(), testutil.NewDiscardLogger())

	_, err := uc.Execute(context.Background(), usecase.MigrateCredentialsInput{})

	assert.Error(t, err)
}
