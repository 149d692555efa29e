// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bedrock-xrpl/bedrock/config"
	"github.com/bedrock-xrpl/bedrock/contracts/counter"
	"github.com/bedrock-xrpl/bedrock/contracts/vault"
	"github.com/bedrock-xrpl/bedrock/pebble"
	"github.com/bedrock-xrpl/bedrock/runtime"
	"github.com/bedrock-xrpl/bedrock/state"
	"github.com/bedrock-xrpl/bedrock/trace"
	"github.com/bedrock-xrpl/bedrock/utils"

	avatrace "github.com/ava-labs/avalanchego/trace"
)

const loggerName = "bedrock"

// CLI holds everything a command needs. It is set up once before the
// command runs and torn down after it.
type CLI struct {
	configFile string
	logLevel   string
	dbDir      string
	cleanup    bool

	cfg        *config.Config
	log        logging.Logger
	logFactory *logFactory
	tracer     avatrace.Tracer
	profiler   profiler.ContinuousProfiler
	registry   *prometheus.Registry
	rt         *runtime.Runtime

	closers []func() error
}

// Execute runs the root command and tears down whatever the command opened,
// whether or not it failed.
func Execute(ctx context.Context) error {
	c := &CLI{}
	defer c.Close()
	return c.NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree bound to [c]. The caller owns [c] and
// must Close it once the command returns.
func (c *CLI) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bedrock-cli",
		Short: "Deploy and call counter and vault contracts",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.Init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.PersistentFlags().StringVar(&c.configFile, "config", "", "path to a JSON config file")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (overrides config)")
	cmd.PersistentFlags().StringVar(&c.dbDir, "db-dir", "", "database directory (overrides config)")
	cmd.PersistentFlags().BoolVar(&c.cleanup, "cleanup", false, "remove the database and logs on exit")

	cmd.AddCommand(
		newDeployCmd(c),
		newCallCmd(c),
		newRunCmd(c),
		newInterpreterCmd(c),
	)
	return cmd
}

// Init loads the config and opens the logger, tracer, database and runtime.
func (c *CLI) Init(cmd *cobra.Command) error {
	var b []byte
	if len(c.configFile) > 0 {
		var err error
		b, err = os.ReadFile(c.configFile)
		if err != nil {
			return err
		}
	}
	cfg, err := config.New(b)
	if err != nil {
		return err
	}
	if len(c.logLevel) > 0 {
		cfg.LogLevel, err = logging.ToLevel(c.logLevel)
		if err != nil {
			return err
		}
	}
	if len(c.dbDir) > 0 {
		cfg.DatabaseDir = c.dbDir
	}
	c.cfg = cfg

	if err := c.initLogger(); err != nil {
		return err
	}
	if err := c.initTracing(); err != nil {
		c.Close()
		return err
	}
	db, err := c.openDatabase()
	if err != nil {
		c.Close()
		return err
	}
	if err := c.initRuntime(db); err != nil {
		c.Close()
		return err
	}
	c.log.Debug("initialized",
		zap.String("command", cmd.Name()),
		zap.String("backend", cfg.StateBackend),
		zap.Bool("configLoaded", cfg.Loaded()),
	)
	return nil
}

func (c *CLI) initLogger() error {
	logDir, err := utils.InitSubDirectory(c.cfg.LogDir, loggerName)
	if err != nil {
		return err
	}
	if c.cleanup {
		c.addCloser(func() error {
			return os.RemoveAll(logDir)
		})
	}
	logConfig := logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   8, // megabytes
			MaxFiles:  4,
			MaxAge:    7, // days
			Directory: logDir,
		},
		LogLevel:     c.cfg.LogLevel,
		DisplayLevel: c.cfg.LogLevel,
		LogFormat:    logging.JSON,
	}
	c.logFactory = newLogFactory(logConfig)
	c.log, err = c.logFactory.Make(loggerName)
	if err != nil {
		c.logFactory.Close()
		return err
	}
	c.addCloser(func() error {
		c.logFactory.Close()
		return nil
	})
	return nil
}

func (c *CLI) initTracing() error {
	tracer, err := trace.New(c.cfg.GetTraceConfig())
	if err != nil {
		return err
	}
	c.tracer = tracer
	c.addCloser(tracer.Close)

	profilerConfig := c.cfg.GetContinuousProfilerConfig()
	if !profilerConfig.Enabled {
		return nil
	}
	c.profiler = profiler.NewContinuous(profilerConfig.Dir, profilerConfig.Freq, profilerConfig.MaxNumFiles)
	go func() {
		if err := c.profiler.Dispatch(); err != nil {
			c.log.Warn("profiler stopped", zap.Error(err))
		}
	}()
	c.addCloser(func() error {
		c.profiler.Shutdown()
		return nil
	})
	return nil
}

func (c *CLI) openDatabase() (state.Database, error) {
	switch c.cfg.StateBackend {
	case config.MemoryBackend:
		return state.NewDatabase(memdb.New()), nil
	case config.PebbleBackend:
		db, registry, err := pebble.New(c.cfg.DatabaseDir, c.cfg.Pebble)
		if err != nil {
			return nil, err
		}
		c.registry = registry
		if c.cleanup {
			dir := c.cfg.DatabaseDir
			c.addCloser(func() error {
				return os.RemoveAll(dir)
			})
		}
		c.addCloser(db.Close)
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownBackend, c.cfg.StateBackend)
	}
}

func (c *CLI) initRuntime(db state.Database) error {
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}
	rt, err := runtime.New(c.log, c.cfg.Runtime, c.tracer, c.registry, db)
	if err != nil {
		return err
	}
	if err := rt.Register(counter.Name, counter.New(c.log).Exports()); err != nil {
		return err
	}
	if err := rt.Register(vault.Name, vault.New(c.log, c.cfg.Vault).Exports()); err != nil {
		return err
	}
	c.rt = rt
	return nil
}

func (c *CLI) addCloser(f func() error) {
	c.closers = append(c.closers, f)
}

// Close releases resources in reverse order of acquisition.
func (c *CLI) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close: %s\n", err)
		}
	}
	c.closers = nil
}

func (c *CLI) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
