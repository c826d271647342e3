// Package main provides haulctl, the operator CLI for The Happy Haul data.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/staranysa/TheHappyHaul/internal/config"
	"github.com/staranysa/TheHappyHaul/internal/repository"
	"github.com/staranysa/TheHappyHaul/internal/services"
	"github.com/staranysa/TheHappyHaul/pkg/logger"
)

const (
	cfgKeyDataDir  = "data-dir"
	cfgKeyBackend  = "storage-backend"
	cfgKeyMongoURI = "mongo-uri"
	cfgKeyMongoDB  = "mongo-database"
	cfgKeyLogLevel = "log-level"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every subcommand works against. It is filled in by the
// root command before any subcommand runs.
type app struct {
	users    *repository.UserRepository
	wishlist *services.WishlistService
	close    func()
	json     bool
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HAUL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	a := &app{close: func() {}}

	root := &cobra.Command{
		Use:           "haulctl",
		Short:         "Inspect and repair The Happy Haul data store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), v)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.String(cfgKeyDataDir, "./data", "directory holding the JSON documents (file backend)")
	flags.String(cfgKeyBackend, config.BackendFile, "storage backend: file or mongo")
	flags.String(cfgKeyMongoURI, "mongodb://localhost:27017", "MongoDB connection string (mongo backend)")
	flags.String(cfgKeyMongoDB, "happyhaul", "MongoDB database name (mongo backend)")
	flags.String(cfgKeyLogLevel, "warn", "log level")
	flags.BoolVar(&a.json, "json", false, "output as JSON")
	_ = v.BindPFlags(flags)

	root.AddCommand(
		newHealCmd(a),
		newStatsCmd(a),
		newUsersCmd(a),
		newRotateTokenCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.InitLogger(v.GetString(cfgKeyLogLevel))

	cfg := &config.Config{
		StorageBackend: strings.ToLower(v.GetString(cfgKeyBackend)),
		DataDir:        v.GetString(cfgKeyDataDir),
		MongoURI:       v.GetString(cfgKeyMongoURI),
		MongoDatabase:  v.GetString(cfgKeyMongoDB),
	}
	backend, closeFn, err := repository.OpenBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	a.users = repository.NewUserRepository(backend)
	// Operator commands never enrich items, so no image finder is needed.
	a.wishlist = services.NewWishlistService(repository.NewDatasetRepository(backend), a.users, nil)
	a.close = closeFn
	return nil
}
