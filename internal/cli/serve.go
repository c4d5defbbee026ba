package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smearlab/pixelsort/internal/api"
	"github.com/smearlab/pixelsort/pkg/cache"
	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/pipeline"
	"github.com/smearlab/pixelsort/pkg/preset"
)

// Result cache backends for the serve command.
const (
	cacheBackendFile  = "file"  // on-disk cache under the user cache dir
	cacheBackendRedis = "redis" // shared Redis cache for multi-instance setups
	cacheBackendNone  = "none"  // caching disabled
)

// redisURLEnv supplies the Redis URL when --redis-url is not given.
const redisURLEnv = "PIXELSORT_REDIS_URL"

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr         string // listen address
	cacheBackend string // result cache backend: file, redis, none
	redisURL     string // redis connection URL (redis backend only)
	maxUpload    int64  // upload size cap in bytes
}

// serveCommand creates the serve command, which runs the HTTP sorting API.
//
// Default settings:
//   - addr: :8080
//   - cache: file (under the user cache dir)
//   - max-upload: 32 MiB
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:         api.DefaultAddr,
		cacheBackend: cacheBackendFile,
		maxUpload:    api.DefaultMaxUploadBytes,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP sorting API",
		Long: `Run the HTTP sorting API.

Endpoints:
  POST /v1/sort      sort an uploaded image or a JSON-referenced URL
  GET  /v1/presets   list the available presets
  GET  /healthz      liveness check

With --cache redis, multiple instances share one result cache. The Redis URL
comes from --redis-url or the ` + redisURLEnv + ` environment variable.

Examples:
  pixelsort serve
  pixelsort serve --addr :9000 --cache none
  pixelsort serve --cache redis --redis-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	fl.StringVar(&opts.cacheBackend, "cache", opts.cacheBackend, "result cache backend: file, redis, none")
	fl.StringVar(&opts.redisURL, "redis-url", "", "redis URL (defaults to $"+redisURLEnv+")")
	fl.Int64Var(&opts.maxUpload, "max-upload", opts.maxUpload, "upload size cap in bytes")

	return cmd
}

// runServe builds the caches and runner, then serves until the context is
// cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	resultCache, err := serveCache(ctx, opts)
	if err != nil {
		return err
	}

	presets, err := preset.Load(preset.DefaultPath())
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(resultCache, nil, c.Logger)
	defer runner.Close()

	// Result and artifact entries share the backend; the keyer prefixes
	// keep the two layers apart.
	var artifactCache cache.Cache
	if opts.cacheBackend != cacheBackendNone {
		artifactCache = resultCache
	}

	srv := api.NewServer(api.Config{
		Addr:           opts.addr,
		Runner:         runner,
		Presets:        presets,
		FetchCache:     newFetchCache(opts.cacheBackend == cacheBackendNone),
		ArtifactCache:  artifactCache,
		MaxUploadBytes: opts.maxUpload,
		Logger:         c.Logger,
	})

	printSuccess("Serving on %s", StyleLink.Render(listenURL(opts.addr)))
	printDetail("cache: %s", opts.cacheBackend)
	return srv.Start(ctx)
}

// serveCache builds the result cache for the chosen backend.
func serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch opts.cacheBackend {
	case cacheBackendNone:
		return cache.NewNullCache(), nil
	case cacheBackendFile:
		dir, err := cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case cacheBackendRedis:
		url := opts.redisURL
		if url == "" {
			url = os.Getenv(redisURLEnv)
		}
		if url == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"redis cache requires --redis-url or $%s", redisURLEnv)
		}
		return cache.NewRedisCache(ctx, url)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown cache backend %q (must be one of: file, redis, none)", opts.cacheBackend)
	}
}

// listenURL turns a listen address into something clickable.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
