// Package cli implements the urlgenie-cli admin commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/MikhailRaia/url-genie/internal/app"
	"github.com/MikhailRaia/url-genie/internal/config"
	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/service"
	"github.com/spf13/cobra"
)

// Backend is what every command needs, served either by local storage or by a running server over gRPC.
type Backend interface {
	Shorten(ctx context.Context, input string) (model.URLMapping, error)
	ListRecent(ctx context.Context, limit int) ([]model.URLMapping, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, code string) (string, error)
}

// BackendFactory opens a Backend and returns a function that releases it.
type BackendFactory func(ctx context.Context) (Backend, func(), error)

type options struct {
	configPath      string
	databaseDSN     string
	fileStoragePath string
	redisAddr       string
	baseURL         string
	grpcAddr        string
}

// NewRootCmd builds the command tree. A nil open uses the flags to pick local storage or gRPC.
func NewRootCmd(open BackendFactory) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "urlgenie-cli",
		Short:         "Administer URL Genie short links",
		Long:          "Create, list, delete and resolve URL Genie short links against the configured storage or a running server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to JSON config file")
	flags.StringVarP(&opts.databaseDSN, "database-dsn", "d", "", "Database connection string")
	flags.StringVarP(&opts.fileStoragePath, "file-storage-path", "f", "", "Path to file storage")
	flags.StringVarP(&opts.redisAddr, "redis-address", "r", "", "Redis address for the lookup cache")
	flags.StringVarP(&opts.baseURL, "base-url", "b", "", "Public origin short URLs are built on")
	flags.StringVar(&opts.grpcAddr, "grpc", "", "Talk to a running server at this gRPC address instead of the storage")

	if open == nil {
		open = func(ctx context.Context) (Backend, func(), error) {
			if opts.grpcAddr != "" {
				return dialGRPC(opts.grpcAddr)
			}
			return openLocal(ctx, root, opts)
		}
	}

	root.AddCommand(
		newCreateCmd(open),
		newListCmd(open),
		newDeleteCmd(open),
		newResolveCmd(open),
	)

	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() int {
	if err := NewRootCmd(nil).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(root *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()

	path := opts.configPath
	if envConfig := os.Getenv("CONFIG"); envConfig != "" {
		path = envConfig
	}
	if path != "" {
		if err := cfg.ApplyJSON(path); err != nil {
			return nil, err
		}
	}

	flags := root.PersistentFlags()
	if flags.Changed("database-dsn") {
		cfg.DatabaseDSN = opts.databaseDSN
	}
	if flags.Changed("file-storage-path") {
		cfg.FileStoragePath = opts.fileStoragePath
	}
	if flags.Changed("redis-address") {
		cfg.RedisAddr = opts.redisAddr
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func openLocal(ctx context.Context, root *cobra.Command, opts *options) (Backend, func(), error) {
	cfg, err := loadConfig(root, opts)
	if err != nil {
		return nil, nil, err
	}

	repo, closeStorage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return service.NewURLService(repo, cfg.BaseURL), closeStorage, nil
}
