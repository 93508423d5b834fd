package app

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/envutil"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

const (
	StoreModeSQLite   = "sqlite"
	StoreModePostgres = "postgres"
	StoreModeSupabase = "supabase"

	GeneratorModeMock   = "mock"
	GeneratorModeOpenAI = "openai"
)

type Config struct {
	LogMode string
	Port    int

	StoreMode          string
	SQLitePath         string
	PostgresDSN        string
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseSchema     string

	// JWTSecret enables the progress routes when set.
	JWTSecret   string
	JWTAudience string

	GeneratorMode string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	CORSOrigins []string
}

// LoadDotEnv reads .env into the process environment when the file exists.
// Variables that are already set win.
func LoadDotEnv(log *logger.Logger, paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if log != nil {
				log.Warn("Could not load env file", "path", p, "error", err)
			}
			continue
		}
		if log != nil {
			log.Info("Loaded env file", "path", p)
		}
	}
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		LogMode:            envutil.String("LOG_MODE", "development"),
		Port:               envutil.Int("PORT", 8000),
		StoreMode:          strings.ToLower(envutil.String("STORE_MODE", StoreModeSQLite)),
		SQLitePath:         envutil.String("SQLITE_PATH", "mcat_prep.db"),
		PostgresDSN:        envutil.String("POSTGRES_DSN", ""),
		SupabaseURL:        envutil.String("SUPABASE_URL", ""),
		SupabaseServiceKey: envutil.String("SUPABASE_SERVICE_KEY", ""),
		SupabaseSchema:     envutil.String("SUPABASE_SCHEMA", "public"),
		JWTSecret:          envutil.String("SUPABASE_JWT_SECRET", ""),
		JWTAudience:        envutil.String("SUPABASE_JWT_AUDIENCE", "authenticated"),
		GeneratorMode:      strings.ToLower(envutil.String("GENERATOR_MODE", GeneratorModeMock)),
		OpenAIAPIKey:       envutil.String("OPENAI_API_KEY", ""),
		OpenAIModel:        envutil.String("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:      envutil.String("OPENAI_BASE_URL", ""),
		CORSOrigins:        envutil.List("CORS_ALLOWED_ORIGINS", nil),
	}
	if log != nil {
		log.Info("Loaded config",
			"store_mode", cfg.StoreMode,
			"generator_mode", cfg.GeneratorMode,
			"port", cfg.Port,
			"progress_routes", cfg.JWTSecret != "",
		)
	}
	return cfg
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
