package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BTreeMap/MoyoCare/internal/api"
	"github.com/BTreeMap/MoyoCare/internal/chat"
	"github.com/BTreeMap/MoyoCare/internal/genai"
	"github.com/BTreeMap/MoyoCare/internal/lockfile"
	"github.com/BTreeMap/MoyoCare/internal/store"
	"github.com/BTreeMap/MoyoCare/internal/util"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for MoyoCare state data
	DefaultStateDir = "/var/lib/moyo"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "moyo.db"
)

func main() {
	// Load environment configuration
	config := loadEnvironmentConfig()

	// Initialize structured logger
	initializeLogger(config.LogLevel)

	// Parse command line flags
	flags := parseCommandLineFlags(flag.CommandLine, os.Args[1:], config)

	// A file-based database may only be opened by one process
	if lock, err := acquireDatabaseLock(flags); err != nil {
		slog.Error("Failed to lock database", "error", err)
		os.Exit(1)
	} else if lock != nil {
		defer lock.Release()
	}

	// Build module options
	storeOpts := buildStoreOptions(flags)
	genaiOpts := buildGenAIOptions(flags)
	apiOpts := buildAPIOptions(flags)

	slog.Info("Bootstrapping MoyoCare with configured modules")
	slog.Debug("Final configuration", "state_dir", flags.stateDir, "dsn_set", flags.dbDSN != "", "api_addr", flags.apiAddr, "model", flags.model)
	if err := api.Run(storeOpts, genaiOpts, apiOpts); err != nil {
		slog.Error("MoyoCare failed to run", "error", err)
		// Deferred release does not run on os.Exit; the kernel drops the flock.
		os.Exit(1)
	}
	slog.Info("MoyoCare exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL       string
	StateDir          string
	APIKey            string
	LLMBaseURL        string
	LLMModel          string
	LLMDebug          bool
	APIAddr           string
	RuleBasedFallback bool
	HistoryLimit      int
	ShutdownTimeout   time.Duration
	LogLevel          string
}

// Flags holds command line flag values after parsing
type Flags struct {
	stateDir          string
	dbDSN             string
	apiKey            string
	baseURL           string
	model             string
	llmDebug          bool
	apiAddr           string
	ruleBasedFallback bool
	historyLimit      int
	shutdownTimeout   time.Duration
}

// parseLogLevel maps a level name onto slog; unknown names mean info.
func parseLogLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initializeLogger sets up structured logging at the configured level
func initializeLogger(level string) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(level)}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		StateDir:          os.Getenv("MOYO_STATE_DIR"),
		APIKey:            util.FirstEnv("GROQ_API_KEY", "OPENAI_API_KEY"),
		LLMBaseURL:        os.Getenv("MOYO_LLM_BASE_URL"),
		LLMModel:          os.Getenv("MOYO_LLM_MODEL"),
		LLMDebug:          util.ParseBoolEnv("MOYO_LLM_DEBUG", false),
		APIAddr:           os.Getenv("API_ADDR"),
		RuleBasedFallback: util.ParseBoolEnv("MOYO_RULE_BASED_FALLBACK", true),
		HistoryLimit:      util.ParseIntEnv("MOYO_HISTORY_LIMIT", chat.DefaultHistoryLimit),
		ShutdownTimeout:   util.ParseDurationEnv("MOYO_SHUTDOWN_TIMEOUT", api.DefaultShutdownTimeout),
		LogLevel:          os.Getenv("MOYO_LOG_LEVEL"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
	}
	// Without a database URL the store is a SQLite file in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
	}
	if config.APIAddr == "" {
		config.APIAddr = api.DefaultAddr
	}

	return config
}

// parseCommandLineFlags parses args with environment values as defaults
func parseCommandLineFlags(fs *flag.FlagSet, args []string, config Config) Flags {
	var f Flags
	fs.StringVar(&f.stateDir, "state-dir", config.StateDir, "state directory for MoyoCare data (overrides $MOYO_STATE_DIR)")
	fs.StringVar(&f.dbDSN, "db-dsn", config.DatabaseURL, "database DSN, a PostgreSQL URL or SQLite path (overrides $DATABASE_URL)")
	fs.StringVar(&f.apiKey, "api-key", config.APIKey, "LLM API key (overrides $GROQ_API_KEY or $OPENAI_API_KEY)")
	fs.StringVar(&f.baseURL, "llm-base-url", config.LLMBaseURL, "OpenAI-compatible API base URL (overrides $MOYO_LLM_BASE_URL)")
	fs.StringVar(&f.model, "llm-model", config.LLMModel, "completion model (overrides $MOYO_LLM_MODEL)")
	fs.BoolVar(&f.llmDebug, "llm-debug", config.LLMDebug, "write completion calls to the state directory (overrides $MOYO_LLM_DEBUG)")
	fs.StringVar(&f.apiAddr, "api-addr", config.APIAddr, "API server address (overrides $API_ADDR)")
	fs.BoolVar(&f.ruleBasedFallback, "rule-based-fallback", config.RuleBasedFallback, "answer /chat with the rule-based composer when no LLM is configured (overrides $MOYO_RULE_BASED_FALLBACK)")
	fs.IntVar(&f.historyLimit, "history-limit", config.HistoryLimit, "trailing messages sent to the model (overrides $MOYO_HISTORY_LIMIT)")
	fs.DurationVar(&f.shutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "graceful shutdown timeout (overrides $MOYO_SHUTDOWN_TIMEOUT)")

	if err := fs.Parse(args); err != nil {
		// The default FlagSet exits on error; a custom one reports and keeps defaults.
		slog.Error("failed to parse flags", "error", err)
	}

	// Follow a moved state directory when the DSN is still the default file
	defaultDSN := filepath.Join(config.StateDir, DefaultDBFileName)
	if f.dbDSN == defaultDSN && f.stateDir != config.StateDir {
		f.dbDSN = filepath.Join(f.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "old_state_dir", config.StateDir, "new_state_dir", f.stateDir)
	}

	slog.Debug("flags parsed",
		"stateDir", f.stateDir,
		"dbDSN_set", f.dbDSN != "",
		"apiKeySet", f.apiKey != "",
		"baseURL", f.baseURL,
		"model", f.model,
		"apiAddr", f.apiAddr,
		"ruleBasedFallback", f.ruleBasedFallback,
		"historyLimit", f.historyLimit)

	return f
}

// acquireDatabaseLock locks the directory of a SQLite database. PostgreSQL
// and in-memory stores need no lock and return nil.
func acquireDatabaseLock(flags Flags) (*lockfile.Lock, error) {
	if flags.dbDSN == "" || store.DetectDSNType(flags.dbDSN) != store.DriverSQLite {
		return nil, nil
	}
	path := strings.TrimPrefix(flags.dbDSN, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == ":memory:" {
		return nil, nil
	}
	return lockfile.AcquireForDatabase(path)
}

// buildStoreOptions constructs store configuration options
func buildStoreOptions(flags Flags) []store.Option {
	if flags.dbDSN == "" {
		slog.Debug("No database DSN provided, will use in-memory store")
		return nil
	}
	if store.DetectDSNType(flags.dbDSN) == store.DriverPostgres {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_type", "postgresql")
		return []store.Option{store.WithPostgresDSN(flags.dbDSN)}
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "dsn_type", "sqlite", "db_path", flags.dbDSN)
	return []store.Option{store.WithSQLiteDSN(flags.dbDSN)}
}

// buildGenAIOptions constructs completion client options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if flags.apiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(flags.apiKey))
	}
	if flags.baseURL != "" {
		genaiOpts = append(genaiOpts, genai.WithBaseURL(flags.baseURL))
	}
	if flags.model != "" {
		genaiOpts = append(genaiOpts, genai.WithModel(flags.model))
	}
	if flags.llmDebug {
		genaiOpts = append(genaiOpts, genai.WithDebugMode(true), genai.WithStateDir(flags.stateDir))
	}
	return genaiOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	apiOpts := []api.Option{
		api.WithRuleBasedFallback(flags.ruleBasedFallback),
	}
	if flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(flags.apiAddr))
	}
	if flags.historyLimit > 0 {
		apiOpts = append(apiOpts, api.WithHistoryLimit(flags.historyLimit))
	}
	if flags.shutdownTimeout > 0 {
		apiOpts = append(apiOpts, api.WithShutdownTimeout(flags.shutdownTimeout))
	}
	return apiOpts
}
