package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/staranysa/TheHappyHaul/internal/config"
)

// OpenBackend returns the document backend selected by cfg.StorageBackend
// together with a function releasing its resources.
func OpenBackend(ctx context.Context, cfg *config.Config) (DocumentBackend, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendFile, "":
		logrus.WithField("dir", cfg.DataDir).Info("Using file storage")
		return NewFileBackend(cfg.DataDir), func() {}, nil
	case config.BackendMongo:
		client, db, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logrus.WithError(err).Warn("Failed to disconnect from MongoDB")
			}
		}
		return NewMongoBackend(db), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
