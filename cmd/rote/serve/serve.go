// Package servecmder provides the serve command for running the rote server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quizfolkco/rote/api"
	"github.com/quizfolkco/rote/api/mcp"
	"github.com/quizfolkco/rote/pkg/config"
	"github.com/quizfolkco/rote/pkg/dotdir"
	"github.com/quizfolkco/rote/pkg/eventstream"
	"github.com/quizfolkco/rote/pkg/eventstream/kafka"
	"github.com/quizfolkco/rote/pkg/eventstream/nop"
	"github.com/quizfolkco/rote/pkg/kb"
	"github.com/quizfolkco/rote/pkg/logger"
	"github.com/quizfolkco/rote/pkg/registry"
	"github.com/quizfolkco/rote/pkg/review"
	"github.com/quizfolkco/rote/pkg/storage"
	"github.com/quizfolkco/rote/pkg/storage/file"
	"github.com/quizfolkco/rote/pkg/storage/inmemory"
	"github.com/quizfolkco/rote/pkg/storage/postgres"
	"github.com/quizfolkco/rote/pkg/storage/sqlite"
	"github.com/quizfolkco/rote/pkg/worker"
)

type serveCommander struct {
	listen        string
	storageDriver string
	sqlitePath    string
	postgresDSN   string
	knowledgeDir  string
	engineDir     string
	eventsBackend string
	kafkaBrokers  string
	kafkaTopic    string
	noMCP         bool
	noWatch       bool
	debug         bool
	configDir     string

	cfg    *config.Config
	logger *zap.Logger
}

const serveLongDesc string = `Run the rote server.

Serves the review HTTP API and, unless disabled, the MCP endpoint on the
same listener. Knowledge bases load from the knowledge directory and review
progress persists through the configured storage driver.

Flags fall back to config.toml values, then to built-in defaults.

Examples:
  rote serve
  rote serve --listen :1200
  rote serve --storage-driver sqlite --sqlite ./rote.db
  rote serve --events-backend kafka --kafka-brokers localhost:9092`

const serveShortDesc string = "Run the rote server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagListen,
				config.FlagStorageDriver,
				config.FlagSQLite,
				config.FlagPostgresDSN,
				config.FlagKnowledgeDir,
				config.FlagEngineDir,
				config.FlagEventsBackend,
				config.FlagKafkaBrokers,
				config.FlagKafkaTopic,
			})

			cmder.cfg, err = config.FromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagStorageDriver, &cmder.storageDriver)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgresDSN, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.Flags, config.FlagKnowledgeDir, &cmder.knowledgeDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagEngineDir, &cmder.engineDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsBackend, &cmder.eventsBackend)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaTopic, &cmder.kafkaTopic)
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP endpoint")
	cmd.Flags().BoolVar(&cmder.noWatch, "no-watch", false, "Disable knowledge base file watching")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	dd := dotdir.NewManager()
	dotdirPath, err := dd.Target(c.configDir)
	if err != nil {
		return fmt.Errorf("resolving rote directory: %w", err)
	}

	knowledgeDir := c.cfg.Paths.KnowledgeDir
	if knowledgeDir == "" {
		knowledgeDir = filepath.Join(dotdirPath, "knowledge")
	}

	catalog, err := kb.NewCatalog(knowledgeDir)
	if err != nil {
		return fmt.Errorf("opening knowledge catalog: %w", err)
	}
	c.logger.Info("using knowledge directory", zap.String("dir", knowledgeDir))

	driver, err := c.newStorageDriver(ctx, dotdirPath)
	if err != nil {
		return err
	}
	defer driver.Close()

	publisher, err := c.newPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	pool, err := worker.NewPool(&worker.Config{
		Publisher: publisher,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating publish pool: %w", err)
	}
	defer pool.Close()

	reg, err := registry.New(&registry.Config{
		Catalog: catalog,
		Driver:  driver,
		Scheduler: review.Config{
			MinEase:       c.cfg.Review.MinEase,
			DefaultEase:   c.cfg.Review.DefaultEase,
			MaxInterval:   c.cfg.Review.MaxInterval,
			MasteryEase:   c.cfg.Review.MasteryEase,
			MasteryStreak: c.cfg.Review.MasteryStreak,
		},
		ReinsertMin: c.cfg.Review.ReinsertMin,
		ReinsertMax: c.cfg.Review.ReinsertMax,
		Logger:      c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating engine registry: %w", err)
	}

	server := api.NewServer(api.Config{
		ListenAddr: c.cfg.API.Listen,
	}, reg, pool, c.logger)

	if !c.noMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Registry: reg,
			Pool:     pool,
			Logger:   c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating MCP server: %w", err)
		}
		server.Mount("/mcp", mcpServer.Handler())
		c.logger.Info("MCP endpoint mounted", zap.String("path", "/mcp"))
	}

	if c.cfg.Review.Watch && !c.noWatch {
		watcher, err := kb.NewWatcher(catalog, reg, c.logger)
		if err != nil {
			return fmt.Errorf("starting knowledge watcher: %w", err)
		}
		defer watcher.Close()
		c.logger.Info("watching knowledge directory for changes")
	}

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func (c *serveCommander) newStorageDriver(ctx context.Context, dotdirPath string) (storage.Driver, error) {
	switch c.cfg.Storage.Driver {
	case "file", "":
		dir := c.cfg.Paths.EngineDir
		if dir == "" {
			dir = filepath.Join(dotdirPath, "engines")
		}
		driver, err := file.NewDriver(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file storer: %w", err)
		}
		c.logger.Info("using file storage", zap.String("dir", dir))
		return driver, nil

	case "sqlite":
		path := c.cfg.Storage.SQLitePath
		if path == "" {
			path = filepath.Join(dotdirPath, "rote.db")
		}
		driver, err := sqlite.NewSQLiteDriver(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		c.logger.Info("using SQLite storage", zap.String("path", path))
		return driver, nil

	case "postgres":
		if c.cfg.Storage.PostgresDSN == "" {
			return nil, errors.New("postgres driver requires storage.postgres_dsn")
		}
		driver, err := postgres.NewDriver(ctx, c.cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL storer: %w", err)
		}
		c.logger.Info("using PostgreSQL storage")
		return driver, nil

	case "inmemory":
		c.logger.Info("using in-memory storage")
		return inmemory.NewDriver(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %q", c.cfg.Storage.Driver)
	}
}

func (c *serveCommander) newPublisher() (eventstream.Publisher, error) {
	switch c.cfg.Events.Backend {
	case "kafka":
		brokers := splitBrokers(c.cfg.Events.Brokers)
		publisher, err := kafka.NewPublisher(kafka.Config{
			Brokers: brokers,
			Topic:   c.cfg.Events.Topic,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		c.logger.Info("publishing review events to kafka",
			zap.Strings("brokers", brokers),
			zap.String("topic", c.cfg.Events.Topic),
		)
		return publisher, nil

	case "nop", "":
		return nop.NewPublisher(), nil

	default:
		return nil, fmt.Errorf("unknown events backend: %q", c.cfg.Events.Backend)
	}
}

// splitBrokers parses the comma-separated broker list, dropping empty entries.
func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
