package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/config"
)

// Firebase holds the admin app shared by the identity verifier and Firestore.
type Firebase struct {
	App *firebase.App
}

// NewFirebase initializes the admin SDK from the configured service account.
func NewFirebase(ctx context.Context, cfg config.FirebaseConfig, logger *zap.Logger) (*Firebase, error) {
	creds, source, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	var appCfg *firebase.Config
	if cfg.ProjectID != "" {
		appCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, appCfg, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	logger.Info("firebase initialized", zap.String("credentials", source))
	return &Firebase{App: app}, nil
}

// Auth returns the Firebase Auth client.
func (f *Firebase) Auth(ctx context.Context) (*auth.Client, error) {
	return f.App.Auth(ctx)
}

// Firestore returns a new Firestore client; the caller closes it.
func (f *Firebase) Firestore(ctx context.Context) (*firestore.Client, error) {
	return f.App.Firestore(ctx)
}

func loadCredentials(cfg config.FirebaseConfig) ([]byte, string, error) {
	if cfg.CredentialsJSON != "" {
		creds := []byte(cfg.CredentialsJSON)
		if !jsoniter.Valid(creds) {
			return nil, "", errors.New("GOOGLE_CREDENTIALS_JSON is not valid JSON")
		}
		return creds, "env", nil
	}
	if cfg.CredentialsFile == "" {
		return nil, "", errors.New("no firebase credentials configured")
	}
	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, "", fmt.Errorf("read credentials file: %w", err)
	}
	if !jsoniter.Valid(creds) {
		return nil, "", fmt.Errorf("credentials file %s is not valid JSON", cfg.CredentialsFile)
	}
	return creds, cfg.CredentialsFile, nil
}
