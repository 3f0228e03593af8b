package persistence

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// Firestore wraps the document database client.
type Firestore struct {
	Client *firestore.Client
}

// NewFirestore opens a Firestore client from the Firebase app.
func NewFirestore(ctx context.Context, fb *Firebase, logger *zap.Logger) (*Firestore, error) {
	client, err := fb.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open firestore: %w", err)
	}
	logger.Info("connected to firestore")
	return &Firestore{Client: client}, nil
}

// Close releases the client.
func (f *Firestore) Close() {
	if f != nil && f.Client != nil {
		_ = f.Client.Close()
	}
}

// Name identifies the dependency in readiness reports.
func (f *Firestore) Name() string { return "firestore" }

// Ping lists at most one collection to verify credentials and connectivity.
func (f *Firestore) Ping(ctx context.Context) error {
	if f == nil || f.Client == nil {
		return errors.New("firestore client not configured")
	}
	_, err := f.Client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}
