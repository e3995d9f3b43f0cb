package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"

	"movequote/config"
)

// Open builds the backend named by cfg.Backend. The returned func releases
// the backend's clients.
func Open(ctx context.Context, cfg config.StoreConfig, app core.App, logger *zap.Logger) (QuoteStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", config.BackendPocketBase:
		return NewPocketBaseStore(app, logger), noop, nil

	case config.BackendDrive:
		opts, err := clientOptions(ctx, cfg.Drive.CredentialsSecret, cfg.Drive.CredentialsFile, drive.DriveScope)
		if err != nil {
			return nil, nil, fmt.Errorf("drive credentials: %w", err)
		}
		s, err := NewDriveStore(ctx, cfg.Drive.FolderID, logger, opts...)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case config.BackendGCS:
		opts, err := clientOptions(ctx, "", cfg.GCS.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("gcs client: %w", err)
		}
		return NewGCSStore(client, cfg.GCS.Bucket, cfg.GCS.Prefix, logger), client.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
