// README: Firebase auth wiring; everything downstream sees only TokenVerifier.
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseToken is the subset of a verified ID token the middleware needs:
// the uid and the custom claims (role lives there).
type FirebaseToken struct {
	UID    string
	Claims map[string]interface{}
}

// TokenVerifier checks a raw bearer token. The HTTP middleware depends on
// this interface so tests can substitute a stub.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error)
}

type adminVerifier struct {
	auth *auth.Client
}

// NewFirebaseVerifier builds the production verifier from the Firebase Admin
// SDK. An empty credentialsFile falls through to application-default
// credentials (GOOGLE_APPLICATION_CREDENTIALS); projectID must be set so
// tokens are checked against the right project.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &adminVerifier{auth: client}, nil
}

func (v *adminVerifier) VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error) {
	token, err := v.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	return &FirebaseToken{UID: token.UID, Claims: token.Claims}, nil
}
