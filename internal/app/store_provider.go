package app

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/db"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store/gormstore"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store/supabase"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

// Swapped in tests.
var (
	openSQLite = func(log *logger.Logger, path string) (*gorm.DB, error) {
		svc, err := db.NewSQLiteService(log, path)
		if err != nil {
			return nil, err
		}
		return svc.DB(), nil
	}
	openPostgres = func(log *logger.Logger, dsn string) (*gorm.DB, error) {
		svc, err := db.NewPostgresService(log, dsn)
		if err != nil {
			return nil, err
		}
		return svc.DB(), nil
	}
	migrate = db.AutoMigrateAll
)

type StoreProviderBootstrapErrorCode string

const (
	StoreProviderBootstrapErrorInvalidMode   StoreProviderBootstrapErrorCode = "invalid_mode"
	StoreProviderBootstrapErrorMissingConfig StoreProviderBootstrapErrorCode = "missing_config"
	StoreProviderBootstrapErrorConnectFailed StoreProviderBootstrapErrorCode = "connect_failed"
	StoreProviderBootstrapErrorMigrateFailed StoreProviderBootstrapErrorCode = "migrate_failed"
)

type StoreProviderBootstrapError struct {
	Code  StoreProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StoreProviderBootstrapError) Error() string {
	if e == nil {
		return "store bootstrap failed"
	}
	return fmt.Sprintf("store bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StoreProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// OpenStore builds the backend selected by cfg.StoreMode. The gorm backends
// are migrated before they are returned.
func OpenStore(log *logger.Logger, cfg Config) (store.Store, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.StoreMode))
	log.Info("Selecting store provider", "mode", mode)

	st, err := openStore(log, mode, cfg)
	if err != nil {
		classified := classifyStoreProviderBootstrapError(mode, err)
		log.Error("Store provider bootstrap failed",
			"mode", mode,
			"error_code", storeProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return st, nil
}

func openStore(log *logger.Logger, mode string, cfg Config) (store.Store, error) {
	switch mode {
	case StoreModeSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return nil, missingConfig(mode, "SQLITE_PATH")
		}
		return openGormStore(log, mode, func() (*gorm.DB, error) { return openSQLite(log, cfg.SQLitePath) })
	case StoreModePostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return nil, missingConfig(mode, "POSTGRES_DSN")
		}
		return openGormStore(log, mode, func() (*gorm.DB, error) { return openPostgres(log, cfg.PostgresDSN) })
	case StoreModeSupabase:
		if strings.TrimSpace(cfg.SupabaseURL) == "" {
			return nil, missingConfig(mode, "SUPABASE_URL")
		}
		if strings.TrimSpace(cfg.SupabaseServiceKey) == "" {
			return nil, missingConfig(mode, "SUPABASE_SERVICE_KEY")
		}
		st, err := supabase.New(supabase.Config{
			URL:        cfg.SupabaseURL,
			ServiceKey: cfg.SupabaseServiceKey,
			Schema:     cfg.SupabaseSchema,
		}, log)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, &StoreProviderBootstrapError{
			Code:  StoreProviderBootstrapErrorInvalidMode,
			Mode:  mode,
			Cause: fmt.Errorf("unsupported store mode %q", mode),
		}
	}
}

func openGormStore(log *logger.Logger, mode string, open func() (*gorm.DB, error)) (store.Store, error) {
	gdb, err := open()
	if err != nil {
		return nil, &StoreProviderBootstrapError{Code: StoreProviderBootstrapErrorConnectFailed, Mode: mode, Cause: err}
	}
	if err := migrate(gdb); err != nil {
		if sqlDB, dbErr := gdb.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, &StoreProviderBootstrapError{Code: StoreProviderBootstrapErrorMigrateFailed, Mode: mode, Cause: err}
	}
	return gormstore.New(gdb, log), nil
}

func missingConfig(mode, name string) error {
	return &StoreProviderBootstrapError{
		Code:  StoreProviderBootstrapErrorMissingConfig,
		Mode:  mode,
		Cause: fmt.Errorf("%s is required for store mode %q", name, mode),
	}
}

func classifyStoreProviderBootstrapError(mode string, err error) error {
	var bootstrapErr *StoreProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		return err
	}
	if errors.Is(err, apperr.ErrInvalidArgument) {
		return &StoreProviderBootstrapError{Code: StoreProviderBootstrapErrorMissingConfig, Mode: mode, Cause: err}
	}
	return &StoreProviderBootstrapError{Code: StoreProviderBootstrapErrorConnectFailed, Mode: mode, Cause: err}
}

func storeProviderBootstrapErrorCode(err error) StoreProviderBootstrapErrorCode {
	var bootstrapErr *StoreProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StoreProviderBootstrapErrorConnectFailed
}
