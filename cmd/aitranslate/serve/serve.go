// Package servecmder provides the serve command that runs the local HTTP
// bridge for editor plugins.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/aitranslate/api"
	"github.com/papercomputeco/aitranslate/cmd/aitranslate/setup"
	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/dotdir"
	"github.com/papercomputeco/aitranslate/pkg/history"
	"github.com/papercomputeco/aitranslate/pkg/history/inmemory"
	"github.com/papercomputeco/aitranslate/pkg/history/sqlite"
	"github.com/papercomputeco/aitranslate/pkg/history/worker"
	"github.com/papercomputeco/aitranslate/pkg/logger"
	"github.com/papercomputeco/aitranslate/pkg/translate"
)

type ServeCommander struct {
	listen     string
	history    bool
	sqlitePath string
	mcp        bool
	watch      bool

	backend   string
	apiURL    string
	model     string
	streaming bool

	configDir string
	logger    *slog.Logger
}

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagHistory,
	config.FlagSQLite,
}

var modelFlagKeys = []string{
	config.FlagBackend,
	config.FlagAPI,
	config.FlagModel,
	config.FlagStreaming,
}

const serveLongDesc string = `Run the aitranslate HTTP bridge.

Editor plugins call the bridge instead of embedding the engine:
  GET  /ping               Health check
  GET  /engine             Translation source id, name and max length
  POST /translate          {"content","from","to"} -> {"text"}
  POST /link               {"content","from","to"} -> {"text"}
  GET  /supported?src=     {"supported"}
  POST /naming             {"identifier","language_id","paragraph"} -> {"text"}
  POST /config/reload      Re-read config.toml and rebuild the engine
  GET  /history?limit=     Recent translations (with --history)
  /mcp                     MCP tools "translate" and "name"

config.toml is watched and the engine is rebuilt whenever it changes.
With --debug a JSON debug log is also appended to .aitranslate/debug.log.`

const serveShortDesc string = "Run the aitranslate HTTP bridge"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &cmder.listen)
	config.AddBoolFlag(cmd, config.ServeFlags, config.FlagHistory, &cmder.history)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.ModelFlags, config.FlagBackend, &cmder.backend)
	config.AddStringFlag(cmd, config.ModelFlags, config.FlagAPI, &cmder.apiURL)
	config.AddStringFlag(cmd, config.ModelFlags, config.FlagModel, &cmder.model)
	config.AddBoolFlag(cmd, config.ModelFlags, config.FlagStreaming, &cmder.streaming)
	cmd.Flags().BoolVar(&cmder.mcp, "mcp", true, "Serve MCP tools at /mcp")
	cmd.Flags().BoolVar(&cmder.watch, "watch", true, "Rebuild the engine when config.toml changes")

	return cmd
}

func (c *ServeCommander) run(cmd *cobra.Command) error {
	c.configDir = setup.ConfigDir(cmd)

	store, err := config.NewStore(config.ViperLoader(c.configDir, func(v *viper.Viper) {
		config.BindRegisteredFlags(v, cmd, config.ServeFlags, serveFlagKeys)
		config.BindRegisteredFlags(v, cmd, config.ModelFlags, modelFlagKeys)
	}))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := store.Current()

	closeLog, err := c.initLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	var (
		driver     history.Driver
		engineOpts []translate.Option
	)
	if cfg.History.Enabled {
		driver, err = c.newHistoryDriver(cfg)
		if err != nil {
			return err
		}
		defer driver.Close()

		pool, err := worker.NewPool(&worker.Config{
			Driver: driver,
			Logger: c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating history pool: %w", err)
		}
		// drain before the driver closes
		defer pool.Close()

		engineOpts = append(engineOpts, translate.WithRecorder(pool))
	}

	server, err := api.NewServer(api.Config{
		ListenAddr:    cfg.Server.Listen,
		Store:         store,
		History:       driver,
		EngineOptions: engineOpts,
		MCP:           c.mcp,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if c.watch {
		go c.watchConfig(ctx, store, server)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

// initLogger builds the service logger. In debug mode JSON records are also
// appended to the debug log; the returned func closes it.
func (c *ServeCommander) initLogger(cmd *cobra.Command, cfg *config.Config) (func(), error) {
	debug := setup.Debug(cmd) || cfg.Debug.Mode
	console := setup.NewLogger(cmd, cfg)

	if !debug {
		c.logger = console
		return func() {}, nil
	}

	f, path, err := setup.OpenDebugLog(c.configDir)
	if err != nil {
		return nil, err
	}

	c.logger = logger.Multi(
		console,
		logger.New(logger.WithJSON(true), logger.WithDebug(true), logger.WithSource(true), logger.WithWriter(f)),
	)
	c.logger.Info("writing debug log", "path", path)

	return func() { f.Close() }, nil
}

func (c *ServeCommander) newHistoryDriver(cfg *config.Config) (history.Driver, error) {
	path := cfg.History.SQLitePath
	if path == "" {
		var err error
		path, err = dotdir.NewManager().HistoryDBPath(c.configDir)
		if err != nil {
			return nil, err
		}
	}

	if path == ":memory:" {
		c.logger.Info("using in-memory history")
		return inmemory.NewDriver(), nil
	}

	driver, err := sqlite.NewDriver(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	c.logger.Info("using SQLite history", "path", path)
	return driver, nil
}

func (c *ServeCommander) watchConfig(ctx context.Context, store *config.Store, server *api.Server) {
	dir, err := dotdir.NewManager().Target(c.configDir)
	if err != nil {
		c.logger.Warn("config watch disabled", "error", err)
		return
	}

	err = store.Watch(ctx, dir, server.ApplyConfig, func(_ *config.Config, err error) {
		if err != nil {
			c.logger.Warn("config reload failed, keeping previous config", "error", err)
		}
	})
	if err != nil && ctx.Err() == nil {
		c.logger.Warn("config watch stopped", "error", err)
	}
}
