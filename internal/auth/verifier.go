package auth

import (
	"context"
	"errors"
	"fmt"
)

// Subject is the identity proven by a bearer credential.
type Subject struct {
	UID   string
	Email string
}

// IdentityVerifier validates bearer credentials issued by the identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Subject, error)
}

// VerificationError reports why a credential was rejected.
type VerificationError struct {
	Code string
	Err  error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token verification failed (%s): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("token verification failed (%s)", e.Code)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// FailureCode extracts the verification failure code, or "unknown".
func FailureCode(err error) string {
	var verr *VerificationError
	if errors.As(err, &verr) && verr.Code != "" {
		return verr.Code
	}
	return "unknown"
}
