// Package firebase connects the forum to Firebase Authentication for Google sign-in.
package firebase

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Identity is what the forum keeps from a verified ID token.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// IdentityFromToken reads the uid, email and name claims of a verified token
func IdentityFromToken(token *auth.Token) Identity {
	id := Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		id.Name = name
	}
	return id
}

// Username is the forum username given to an account created from this identity
func (id Identity) Username() string {
	if id.Email != "" {
		return id.Email
	}
	return id.UID
}

// DisplayName falls back to Username when the token carries no name
func (id Identity) DisplayName() string {
	if id.Name != "" {
		return id.Name
	}
	return id.Username()
}

// NewAuthClient initializes a Firebase app from a service account file and returns its auth client.
// projectID may be empty, in which case it is read from the credentials.
func NewAuthClient(ctx context.Context, credentialsPath, projectID string) (*auth.Client, error) {
	if credentialsPath == "" {
		return nil, errors.New("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, errors.Wrapf(err, "firebase credentials file %s", credentialsPath)
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "error initializing firebase app")
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error getting firebase auth client")
	}
	return client, nil
}
