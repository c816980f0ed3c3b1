package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/petconnect/backend/internal/services"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	firebaseApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Info("Firebase app and auth client initialized successfully!")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// tokenVerifier is the subset of *auth.Client the verifier needs.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Verifier turns Firebase ID tokens into federated identities.
type Verifier struct {
	client tokenVerifier
}

var _ services.IDTokenVerifier = (*Verifier)(nil)

func NewVerifier(client tokenVerifier) *Verifier {
	return &Verifier{client: client}
}

// Verifier returns the ID token verifier backed by this app's auth client.
func (a *App) Verifier() *Verifier {
	return NewVerifier(a.AuthClient)
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*services.FederatedIdentity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &services.FederatedIdentity{
		UID:     token.UID,
		Email:   claim(token.Claims, "email"),
		Name:    claim(token.Claims, "name"),
		Picture: claim(token.Claims, "picture"),
	}, nil
}

func claim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
