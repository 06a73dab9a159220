// Package auth handles account credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/splitsheets/internal/models"
)

// Authenticator verifies account credentials.
// Implementations decide what a credential is; the services only see users.
type Authenticator interface {
	// Register creates a new account. It fails with ErrEmailExists if the
	// email is taken and with ErrWeakPassword if the credential is rejected.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user the credentials belong to, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}
