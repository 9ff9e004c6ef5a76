package connection

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FBConnection initializes the Firebase app and returns the Firestore and
// Auth clients. The service-account key is read from FB_SERVICE_KEY as a
// base64-encoded JSON document.
func FBConnection() (*firestore.Client, *auth.Client, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on process environment")
	}

	encoded := os.Getenv("FB_SERVICE_KEY")
	if encoded == "" {
		return nil, nil, fmt.Errorf("environment variable FB_SERVICE_KEY is not set")
	}
	credentials, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("decode FB_SERVICE_KEY: %w", err)
	}

	ctx := context.Background()

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	store, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("create firestore client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("create auth client: %w", err)
	}

	log.Info().Msg("firebase connection successful")
	return store, authClient, nil
}
