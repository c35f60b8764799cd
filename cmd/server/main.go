/*
main.go - application entry point

PURPOSE:
  Initializes and starts the personnel engine server. Handles
  configuration, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse flags, load configuration (env + optional .env)
  2. Build the logger
  3. Open the sheet backend (Google Sheets, or local .xlsx in offline mode)
  4. Open the audit database
  5. Wire repositories, ledger, engine, authenticator
  6. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -xlsx    Directory of local workbook files; switches to offline mode

ENVIRONMENT:
  CREDENTIALS_FILE, TOKEN_FILE   OAuth client and cached token
  SHEET_ID_PERSONEL, SHEET_ID_CIHAZ, SHEET_ID_RKE,
  SHEET_ID_SABITLER, SHEET_ID_USER   Spreadsheet ids per workbook
  AUDIT_DB, LOG_LEVEL, DEBUG, APP_ENV

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain for 30s, close
  the audit database, exit.

SEE ALSO:
  - api/server.go: router configuration
  - config/config.go: environment handling
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radkit/radpersonel/api"
	"github.com/radkit/radpersonel/audit"
	"github.com/radkit/radpersonel/cache"
	"github.com/radkit/radpersonel/config"
	"github.com/radkit/radpersonel/fhsz"
	"github.com/radkit/radpersonel/leave"
	"github.com/radkit/radpersonel/logging"
	"github.com/radkit/radpersonel/repo"
	"github.com/radkit/radpersonel/session"
	"github.com/radkit/radpersonel/sheets"
	"github.com/radkit/radpersonel/sheets/gsheets"
	"github.com/radkit/radpersonel/sheets/xlsx"
	"github.com/radkit/radpersonel/turkish"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	xlsxDir := flag.String("xlsx", "", "directory of local workbook files (offline mode)")
	flag.Parse()

	cfg := config.New()
	log := logging.New(cfg.LogLevel)
	defer log.Sync()

	client, err := newSheetClient(cfg, *xlsxDir)
	if err != nil {
		log.Error("sheet backend could not be opened", zap.Error(err))
		os.Exit(1)
	}

	auditLog, err := audit.Open(cfg.Database.AuditPath)
	if err != nil {
		log.Error("audit database could not be opened", zap.Error(err))
		os.Exit(1)
	}
	defer auditLog.Close()

	store := repo.NewStore(client, cache.New(), cfg.Database.CacheTTL, log)
	constants := repo.NewConstants(store)

	// The holiday calendar comes from Sabitler; an empty calendar only
	// affects end-date arithmetic, so startup continues without it.
	var holidays turkish.HolidayCalendar
	if set, err := constants.Holidays(context.Background()); err != nil {
		log.Warn("holiday calendar unavailable; weekends only", zap.Error(err))
	} else {
		holidays = set
	}

	users := repo.NewUser(store)
	handler := api.NewHandler(
		session.NewAuthenticator(users, cfg.Security.PasswordMinLength, log),
		repo.NewPersonnel(store),
		repo.NewLeave(store),
		leave.NewLedger(store, holidays, log),
		fhsz.NewEngine(repo.NewPuantaj(store)),
		auditLog,
		log,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.Int("port", *port), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown did not complete cleanly", zap.Error(err))
	}
}

// newSheetClient picks the backend: local workbooks when -xlsx is given,
// Google Sheets otherwise.
func newSheetClient(cfg *config.Config, xlsxDir string) (sheets.Client, error) {
	if xlsxDir != "" {
		return xlsx.NewClient(map[string]string{
			sheets.WorkbookPersonnel: filepath.Join(xlsxDir, "personel.xlsx"),
			sheets.WorkbookDevice:    filepath.Join(xlsxDir, "cihaz.xlsx"),
			sheets.WorkbookRKE:       filepath.Join(xlsxDir, "rke.xlsx"),
			sheets.WorkbookConstants: filepath.Join(xlsxDir, "sabitler.xlsx"),
			sheets.WorkbookUser:      filepath.Join(xlsxDir, "user.xlsx"),
		}), nil
	}

	ids := map[string]string{
		sheets.WorkbookPersonnel: os.Getenv("SHEET_ID_PERSONEL"),
		sheets.WorkbookDevice:    os.Getenv("SHEET_ID_CIHAZ"),
		sheets.WorkbookRKE:       os.Getenv("SHEET_ID_RKE"),
		sheets.WorkbookConstants: os.Getenv("SHEET_ID_SABITLER"),
		sheets.WorkbookUser:      os.Getenv("SHEET_ID_USER"),
	}
	for key, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("missing spreadsheet id for workbook %q", key)
		}
	}
	return gsheets.NewClient(context.Background(), cfg.Database.CredentialsFile, cfg.Database.TokenFile, ids)
}
