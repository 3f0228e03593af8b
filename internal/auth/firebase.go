package auth

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseVerifier checks Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier wraps an Admin SDK auth client.
func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify validates the ID token and returns its uid and email claim.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Subject, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, &VerificationError{Code: firebaseFailureCode(err), Err: err}
	}
	email, _ := token.Claims["email"].(string)
	return &Subject{UID: token.UID, Email: email}, nil
}

func firebaseFailureCode(err error) string {
	switch {
	case fbauth.IsIDTokenExpired(err):
		return "id-token-expired"
	case fbauth.IsIDTokenRevoked(err):
		return "id-token-revoked"
	case fbauth.IsUserDisabled(err):
		return "user-disabled"
	case fbauth.IsCertificateFetchFailed(err):
		return "certificate-fetch-failed"
	case fbauth.IsIDTokenInvalid(err):
		return "invalid-id-token"
	default:
		return "unknown"
	}
}
