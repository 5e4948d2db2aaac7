package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchmesh/pkg/cache"
	"github.com/matzehuels/sketchmesh/pkg/jobs"
	"github.com/matzehuels/sketchmesh/pkg/pipeline"
	"github.com/matzehuels/sketchmesh/pkg/server"
)

// serveFlags holds the command-line flags for the serve command.
type serveFlags struct {
	addr     string // listen address
	redis    string // redis address for the shared artifact cache
	mongoURI string // mongo connection string for the shared job store
	noCache  bool   // disable artifact caching
}

// serveCommand creates the serve command for the HTTP render API.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{addr: server.DefaultAddr}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render API",
		Long: `Run the HTTP render API.

By default the server uses the local file cache and keeps jobs in memory,
which suits a single instance. For multi-instance deployments point --redis
at a shared artifact cache and --mongo-uri at a shared job store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", flags.addr, "listen address")
	cmd.Flags().StringVar(&flags.redis, "redis", "", "redis address for a shared artifact cache (e.g. localhost:6379)")
	cmd.Flags().StringVar(&flags.mongoURI, "mongo-uri", "", "mongodb connection string for a shared job store")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// runServe wires the cache, job store, and runner into the server and runs
// it until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	artifactCache, err := c.serveCache(ctx, flags)
	if err != nil {
		return err
	}

	store, err := c.serveStore(ctx, flags)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			c.Logger.Error("close job store", "err", err)
		}
	}()

	runner := pipeline.NewRunner(artifactCache, nil, c.Logger)
	defer runner.Close()

	srv, err := server.New(server.Config{
		Addr:   flags.addr,
		Runner: runner,
		Store:  store,
		Logger: c.Logger,
	})
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	return srv.ListenAndServe(ctx)
}

// serveCache picks the artifact cache backend from flags.
func (c *CLI) serveCache(ctx context.Context, flags serveFlags) (cache.Cache, error) {
	switch {
	case flags.noCache:
		return cache.NewNullCache(), nil
	case flags.redis != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: flags.redis})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.Logger.Info("using redis cache", "addr", flags.redis)
		return rc, nil
	default:
		return newCache(false)
	}
}

// serveStore picks the job store backend from flags.
func (c *CLI) serveStore(ctx context.Context, flags serveFlags) (jobs.Store, error) {
	if flags.mongoURI == "" {
		return jobs.NewMemoryStore(), nil
	}
	store, err := jobs.NewMongoStore(ctx, jobs.MongoConfig{URI: flags.mongoURI})
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	c.Logger.Info("using mongo job store")
	return store, nil
}
