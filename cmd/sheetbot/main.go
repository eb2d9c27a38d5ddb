package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sheetbot/internal/bot"
	"sheetbot/internal/channel"
	"sheetbot/internal/config"
	"sheetbot/internal/domain"
	"sheetbot/internal/lookup"
	"sheetbot/internal/metrics"
	"sheetbot/internal/source"
	"sheetbot/internal/store"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "sheetbot",
		Short: "Sheetbot: order and inventory chatbot backed by a spreadsheet",
		Long:  "Sheetbot answers order-status and inventory questions over Twilio WhatsApp/SMS and Telegram, reading its data from Google Sheets or a local workbook.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: ~/.sheetbot/config.yaml)")

	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists at %s", cfgPath)
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			fmt.Printf("Wrote %s. Fill in the sheets credentials, then run 'sheetbot serve'.\n", cfgPath)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server and enabled channels",
		Long:  "Starts the Twilio webhook server, plus the Telegram channel when enabled. Press Ctrl+C to stop.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not loaded, using defaults plus environment", "path", cfgPath, "err", err)
		cfg = config.FromEnv()
	}

	if err := setupLogger(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := buildSource(cfg)
	if err != nil {
		return err
	}

	engine := lookup.New(lookup.Config{
		Source:       src,
		OrdersTab:    cfg.Sheets.OrdersTab,
		InventoryTab: cfg.Sheets.InventoryTab,
		Logger:       logger,
	})

	var msgLog *store.MessageLog
	if cfg.Store.Enabled {
		msgLog, err = store.Open(cfg.Store.DBPath, logger)
		if err != nil {
			return fmt.Errorf("message log: %w", err)
		}
		defer msgLog.Close()
		go msgLog.StartPruner(ctx, cfg.Store.RetentionDays)
	}

	responder := bot.NewResponder(bot.ResponderConfig{
		Lookups:    engine,
		MessageLog: msgLog,
		Logger:     logger,
	})

	if cfg.Channels.Telegram.Enabled {
		tg, err := channel.NewTelegram(channel.TelegramOptions{
			Config:    cfg.Channels.Telegram,
			Responder: responder,
			Logger:    logger,
		})
		if err != nil {
			return err
		}
		go func() {
			if err := tg.Start(ctx); err != nil {
				logger.Error("telegram channel error", "err", err)
			}
		}()
	} else {
		logger.Info("telegram channel disabled")
	}

	opts := channel.TwilioOptions{
		Config:    cfg.Channels.Twilio,
		Responder: responder,
		Logger:    logger,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.Collector.Handler()
		opts.MetricsEndpoint = cfg.Metrics.Endpoint
	}

	return channel.NewTwilio(opts).Start(ctx)
}

// buildSource picks the row source from config.
func buildSource(cfg *config.Config) (domain.RowSource, error) {
	switch cfg.Sheets.Source {
	case "workbook":
		return source.NewWorkbook(cfg.Sheets.WorkbookPath, logger), nil
	default:
		return source.NewGoogleSheets(source.GoogleConfig{
			SpreadsheetID:       cfg.Sheets.SpreadsheetID,
			ServiceAccountEmail: cfg.Sheets.ServiceAccountEmail,
			PrivateKey:          cfg.Sheets.PrivateKey,
			Logger:              logger,
		}), nil
	}
}

// setupLogger rebuilds the process logger with the configured level and
// optional log file.
func setupLogger(cfg *config.Config) error {
	var level slog.Level
	switch cfg.General.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := os.Stderr
	if cfg.General.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0o755); err != nil {
			return fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
	}

	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return nil
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent messages from the message log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.Store.Enabled {
				return fmt.Errorf("message log is disabled (store.enabled: false)")
			}
			msgLog, err := store.Open(cfg.Store.DBPath, logger)
			if err != nil {
				return err
			}
			defer msgLog.Close()

			entries, err := msgLog.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  %-8s  %-9s  %-9s  %q\n",
					e.CreatedAt.Format("2006-01-02 15:04:05"), e.Channel, e.Command, e.Outcome, e.Body)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of messages to show")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long:  "Get, set, and list configuration values. Changes are saved to the config file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [path]",
		Short: "Get a config value (e.g. sheets.ordersTab)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			val, err := config.GetByPath(cfg, args[0])
			if err != nil {
				return err
			}
			data, _ := yaml.Marshal(val)
			fmt.Print(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [path] [value]",
		Short: "Set a config value (e.g. sheets.ordersTab Shipments)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := config.SetByPath(cfg, args[0], args[1]); err != nil {
				return fmt.Errorf("set value: %w", err)
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			logger.Info("config updated", "path", args[0], "value", args[1], "file", cfgPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all config values (secrets masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			data, _ := yaml.Marshal(config.Sanitize(cfg))
			fmt.Print(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(resolveConfigPath())
		},
	})

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("sheetbot " + version)
		},
	}
}
