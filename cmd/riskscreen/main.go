package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/vitalpath/riskscreen/internal/api"
	"github.com/vitalpath/riskscreen/internal/genai"
	"github.com/vitalpath/riskscreen/internal/store"
	"github.com/vitalpath/riskscreen/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for riskscreen state data
	DefaultStateDir = "/var/lib/riskscreen"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "riskscreen.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize assessment store", "error", err)
		os.Exit(1)
	}

	genaiClient := buildGenAIClient(flags)

	slog.Info("Bootstrapping riskscreen", "api_addr", *flags.apiAddr, "db_driver", *flags.dbDriver, "genai_enabled", genaiClient != nil)
	server := api.NewServer(genaiClient, st, api.WithAddr(*flags.apiAddr))
	if err := server.Run(); err != nil {
		slog.Error("riskscreen failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("riskscreen exited successfully")
}

// Config holds environment configuration
type Config struct {
	DbDriver    string
	DatabaseURL string
	StateDir    string
	OpenAIKey   string
	OpenAIModel string
	APIAddr     string
}

// Flags holds command line flag values
type Flags struct {
	stateDir    *string
	dbDriver    *string
	dbDSN       *string
	openaiKey   *string
	openaiModel *string
	apiAddr     *string
}

// initializeLogger sets up structured logging.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("RISKSCREEN_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
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
		DbDriver:    os.Getenv("RISKSCREEN_DB_DRIVER"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StateDir:    os.Getenv("RISKSCREEN_STATE_DIR"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: os.Getenv("OPENAI_MODEL"),
		APIAddr:     os.Getenv("API_ADDR"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No RISKSCREEN_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}
	if config.DbDriver == "" {
		config.DbDriver = "sqlite3"
	}
	if config.APIAddr == "" {
		config.APIAddr = api.DefaultAddr
	}
	return config
}

// parseCommandLineFlags parses command line flags with environment defaults.
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:    flag.String("state-dir", config.StateDir, "Directory for riskscreen state data"),
		dbDriver:    flag.String("db-driver", config.DbDriver, "Database driver: sqlite3, postgres, or memory"),
		dbDSN:       flag.String("db-dsn", config.DatabaseURL, "Database connection string"),
		openaiKey:   flag.String("openai-key", config.OpenAIKey, "OpenAI API key for personalized generation"),
		openaiModel: flag.String("openai-model", config.OpenAIModel, "OpenAI model override"),
		apiAddr:     flag.String("api-addr", config.APIAddr, "API listen address"),
	}
	flag.Parse()
	return flags
}

// buildStore selects and initializes the assessment store backend.
func buildStore(flags Flags) (store.Store, error) {
	switch *flags.dbDriver {
	case "postgres":
		return store.NewPostgresStore(store.WithDSN(*flags.dbDSN))
	case "memory":
		return store.NewInMemoryStore(), nil
	default:
		dsn := *flags.dbDSN
		if dsn == "" {
			dsn = *flags.stateDir + "/" + DefaultDBFileName
		}
		return store.NewSQLiteStore(store.WithDSN(dsn))
	}
}

// buildGenAIClient initializes the reasoning-service client. A missing API
// key is not fatal: the interview runs on static questions and fallback
// content only.
func buildGenAIClient(flags Flags) genai.ClientInterface {
	opts := []genai.Option{}
	if *flags.openaiKey != "" {
		opts = append(opts, genai.WithAPIKey(*flags.openaiKey))
	}
	if *flags.openaiModel != "" {
		opts = append(opts, genai.WithModel(*flags.openaiModel))
	}
	client, err := genai.NewClient(opts...)
	if err != nil {
		slog.Warn("GenAI client unavailable, running with static questions only", "error", err)
		return nil
	}
	return client
}
