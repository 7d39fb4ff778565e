// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ammerola/pharmacy-be/internal/adapters/spreadsheet"
	"github.com/ammerola/pharmacy-be/internal/app"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/pkg/logger"
)

// seederState tracks which workbooks were already imported.
type seederState struct {
	ProcessedFiles []string  `json:"processed_files"`
	LastUpdate     time.Time `json:"last_update"`
}

func main() {
	var (
		dataDir       = flag.String("data", "./seed", "Directory containing medicines*.xlsx and stock*.xlsx workbooks")
		stateFile     = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		adminEmail    = flag.String("admin-email", "admin@pharmacy.local", "Admin account that owns seeded purchases")
		adminPassword = flag.String("admin-password", "", "Password for the admin account (falls back to SEED_ADMIN_PASSWORD)")
		logLevel      = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun        = flag.Bool("dry-run", false, "Parse workbooks without modifying the database")
		force         = flag.Bool("force", false, "Reimport every workbook")
		reset         = flag.Bool("reset", false, "Roll back every migration before seeding; deletes all data")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "text")
	ctx := context.Background()

	files, err := workbooks(*dataDir)
	if err != nil {
		slogger.Error("failed to find workbooks", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No workbooks found in %s\n", *dataDir)
		return
	}

	var state seederState
	if !*force && !*reset {
		if data, err := os.ReadFile(*stateFile); err == nil {
			if err := json.Unmarshal(data, &state); err != nil {
				slogger.Warn("ignoring unreadable state file", slog.String("error", err.Error()))
			}
		}
	}

	if *dryRun {
		dryRunFiles(files)
		return
	}

	cfg, err := app.LoadConfig(ctx, slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	deps, err := app.New(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.Close()

	if *reset {
		if err := deps.Rollback(ctx, 0); err != nil {
			slogger.Error("failed to reset database", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	if err := deps.Migrate(ctx); err != nil {
		slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	password := *adminPassword
	if password == "" {
		password = os.Getenv("SEED_ADMIN_PASSWORD")
	}
	adminID, err := ensureAdmin(ctx, deps, *adminEmail, password)
	if err != nil {
		slogger.Error("failed to prepare admin account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var (
		imported, succeeded, failed int
		failedFiles                 []string
	)
	for i, file := range files {
		name := filepath.Base(file)
		fmt.Printf("PROGRESS: Processing %d/%d: %s\n", i+1, len(files), name)

		if slices.Contains(state.ProcessedFiles, name) {
			slogger.Info("skipping already imported workbook", slog.String("file", name))
			continue
		}

		report, err := importFile(ctx, deps, adminID, file)
		if err != nil {
			fmt.Printf("ERROR: %s - %v\n", name, err)
			failedFiles = append(failedFiles, name)
			continue
		}

		fmt.Printf("SUCCESS: %s - %d rows imported, %d rows rejected\n", name, report.SuccessCount, report.ErrorCount)
		for _, rowErr := range report.Errors {
			fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
		}

		imported++
		succeeded += report.SuccessCount
		failed += report.ErrorCount

		state.ProcessedFiles = append(state.ProcessedFiles, name)
		state.LastUpdate = time.Now()
		if err := saveState(*stateFile, state); err != nil {
			slogger.Warn("failed to save state", slog.String("error", err.Error()))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Workbooks imported: %d\n", imported)
	fmt.Printf("Rows imported:      %d\n", succeeded)
	fmt.Printf("Rows rejected:      %d\n", failed)
	if len(failedFiles) > 0 {
		fmt.Printf("\nFailed workbooks (%d):\n", len(failedFiles))
		for _, f := range failedFiles {
			fmt.Printf("  - %s\n", f)
		}
	}

	slogger.Info("seed operation completed",
		slog.Int("workbooks", imported),
		slog.Int("rows_imported", succeeded),
		slog.Int("rows_rejected", failed))
}

// workbooks lists medicine workbooks before stock workbooks so stock rows
// can reference medicines created in the same run.
func workbooks(dir string) ([]string, error) {
	var out []string
	for _, kind := range []domain.ImportKind{domain.ImportMedicines, domain.ImportStock} {
		matches, err := filepath.Glob(filepath.Join(dir, string(kind)+"*.xlsx"))
		if err != nil {
			return nil, err
		}
		slices.Sort(matches)
		out = append(out, matches...)
	}
	return out, nil
}

func kindOf(file string) domain.ImportKind {
	if strings.HasPrefix(filepath.Base(file), string(domain.ImportStock)) {
		return domain.ImportStock
	}
	return domain.ImportMedicines
}

func importFile(ctx context.Context, deps *app.Container, userID int64, file string) (*domain.ImportReport, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return deps.Imports.Run(ctx, kindOf(file), userID, data)
}

func dryRunFiles(files []string) {
	sheets := spreadsheet.New()
	for _, file := range files {
		name := filepath.Base(file)
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("ERROR: %s - %v\n", name, err)
			continue
		}

		var rows int
		switch kindOf(file) {
		case domain.ImportStock:
			parsed, perr := sheets.ParseStockRows(data)
			rows, err = len(parsed), perr
		default:
			parsed, perr := sheets.ParseMedicineRows(data)
			rows, err = len(parsed), perr
		}
		if err != nil {
			fmt.Printf("ERROR: %s - %v\n", name, err)
			continue
		}
		fmt.Printf("OK: %s - %d rows\n", name, rows)
	}
	fmt.Println("\n[DRY RUN] No changes were made to the database")
}

// ensureAdmin registers the admin account on first run and resolves its
// id by logging in afterwards.
func ensureAdmin(ctx context.Context, deps *app.Container, email, password string) (int64, error) {
	if password == "" {
		return 0, errors.New("admin password is required")
	}

	user, err := deps.Auth.Register(ctx, "Seed Admin", email, password, domain.RoleAdmin)
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return 0, err
	}

	pair, err := deps.Auth.Login(ctx, email, password)
	if err != nil {
		return 0, fmt.Errorf("admin exists but login failed: %w", err)
	}
	id, err := deps.Auth.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		return 0, err
	}
	if id.Role != domain.RoleAdmin {
		return 0, fmt.Errorf("%s is not an admin", email)
	}
	return id.ID, nil
}

func saveState(path string, state seederState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
