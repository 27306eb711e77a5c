package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-profile-events/pkg/activity"
	"github.com/goliatone/go-profile-events/pkg/config"
	"github.com/goliatone/go-profile-events/pkg/interfaces/logger"
	"github.com/goliatone/go-profile-events/pkg/profile"
	"github.com/goliatone/go-profile-events/pkg/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

type rootOptions struct {
	configFile string
	dbPath     string
	logFile    string
	logLevel   string
}

// NewRootCmd returns the root command for the relay CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "profile-relay",
		Short:         "Replay and inspect social-profile notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (in-memory storage when empty)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "rotate logs into this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")

	rootCmd.AddCommand(newReplayCmd(opts))
	rootCmd.AddCommand(newJournalCmd(opts))
	rootCmd.AddCommand(newRewardsCmd(opts))
	rootCmd.AddCommand(newMethodsCmd(opts))

	return rootCmd
}

// session owns the resources opened for one command invocation.
type session struct {
	module *profile.Module
	logger logger.Logger
	db     *bun.DB
	closer io.Closer
}

func (s *session) Close() error {
	if s == nil {
		return nil
	}
	_ = s.module.Close()
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (o *rootOptions) open(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFile != "" {
		cfg.Logging.File = o.logFile
	}

	lgr, closer, err := newLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	s := &session{logger: lgr, closer: closer}
	moduleOpts := profile.ModuleOptions{
		Config: cfg,
		Logger: lgr,
		Hooks:  activity.Hooks{activity.LogHook{Logger: lgr}},
	}
	if o.dbPath != "" {
		db, err := openDB(ctx, o.dbPath)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.db = db
		moduleOpts.DB = db
	}

	module, err := profile.NewModule(moduleOpts)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.module = module
	if err := module.Start(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load(nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}
	input := map[string]any{}
	if err := yaml.Unmarshal(raw, &input); err != nil {
		return config.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return config.Load(input)
}

func newLogger(cfg config.LoggingConfig, stderr io.Writer) (logger.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(level)
	l.SetOutput(stderr)

	var closer io.Closer
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		l.SetOutput(rotator)
		closer = rotator
	}
	return logger.NewLogrus(l), closer, nil
}

func openDB(ctx context.Context, path string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.DriverName(), path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := storage.CreateTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
