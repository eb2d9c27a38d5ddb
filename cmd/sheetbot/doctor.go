package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"sheetbot/internal/config"
	"sheetbot/internal/table"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your sheetbot installation",
		Long: `Verifies that sheetbot's configuration, spreadsheet access, database, and
webhook port are correctly set up. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			fmt.Printf("Sheetbot Doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Config file exists
			if _, err := os.Stat(cfgPath); err != nil {
				printFail("Config file", fmt.Sprintf("not found at %s", cfgPath))
				failed++
				fmt.Printf("\nRun 'sheetbot init' to create a default configuration.\n")
				return nil
			}
			printPass("Config file", cfgPath)
			passed++

			// 2. Config loads and validates
			cfg, err := config.Load(cfgPath)
			if err != nil {
				printFail("Config validation", err.Error())
				failed++
				fmt.Printf("\n%d passed, %d failed\n", passed, failed)
				return nil
			}
			printPass("Config validation", "valid")
			passed++

			// 3. Sheet source reachable, with the required header present
			if err := checkSource(cfg); err != nil {
				printFail("Sheet source", err.Error())
				failed++
			} else {
				printPass("Sheet source", fmt.Sprintf("%s tab %q readable", cfg.Sheets.Source, cfg.Sheets.OrdersTab))
				passed++
			}

			// 4. Database writable
			if cfg.Store.Enabled {
				if err := checkDatabase(cfg.Store.DBPath); err != nil {
					printFail("Message log", err.Error())
					failed++
				} else {
					printPass("Message log", cfg.Store.DBPath)
					passed++
				}
			} else {
				printWarn("Message log", "disabled (store.enabled: false)")
				warned++
			}

			// 5. Webhook port available
			if err := checkPort(cfg.Channels.Twilio.Port); err != nil {
				printWarn("Webhook port", fmt.Sprintf("port %d may be in use: %v", cfg.Channels.Twilio.Port, err))
				warned++
			} else {
				printPass("Webhook port", fmt.Sprintf(":%d available", cfg.Channels.Twilio.Port))
				passed++
			}

			// 6. Signature validation configured
			if cfg.Channels.Twilio.AuthToken == "" {
				printWarn("Twilio signature", "no auth token set, webhook accepts unsigned requests")
				warned++
			} else {
				printPass("Twilio signature", "validation enabled")
				passed++
			}

			// 7. Log file writable
			if cfg.General.LogFile != "" {
				if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0o755); err != nil {
					printWarn("Log file", fmt.Sprintf("cannot create log directory: %v", err))
					warned++
				} else {
					printPass("Log file", cfg.General.LogFile)
					passed++
				}
			}

			// Summary
			fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Printf("Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running sheetbot.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			if warned > 0 {
				fmt.Printf("\nSheetbot should work but consider fixing the warnings.\n")
			} else {
				fmt.Printf("\nAll checks passed! Sheetbot is ready to run.\n")
			}
			return nil
		},
	}
}

// checkSource fetches the orders tab header row to confirm both connectivity
// and the presence of the column every order lookup needs.
func checkSource(cfg *config.Config) error {
	src, err := buildSource(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	rows, err := src.FetchRows(ctx, cfg.Sheets.OrdersTab)
	if err != nil {
		return err
	}
	tab := table.New(rows)
	if tab.Empty() {
		return fmt.Errorf("tab %q is empty", cfg.Sheets.OrdersTab)
	}
	if tab.ColumnIndex("Order ID") < 0 {
		return fmt.Errorf("tab %q has no 'Order ID' column", cfg.Sheets.OrdersTab)
	}
	return nil
}

func checkDatabase(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("cannot create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("cannot open: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("cannot ping: %w", err)
	}

	// Try a write.
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS _doctor_test (id INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	db.ExecContext(ctx, "DROP TABLE IF EXISTS _doctor_test")

	return nil
}

func checkPort(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	ln.Close()
	return nil
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-20s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-20s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-20s %s\n", check, detail)
}
