package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server and MCP entry points read.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Runs     RunsConfig
	MCP      MCPConfig

	DataDir  string
	InboxDir string // empty disables the tool-call inbox
}

type ServerConfig struct {
	Addr       string
	CORSOrigin string
	BodyLimit  int
}

// DatabaseConfig selects the board store. Driver is sqlite, postgres or mysql;
// an empty DSN with sqlite means a file under DataDir.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

type LogConfig struct {
	Level string
	Dev   bool
}

// RunsConfig controls how long executor run records are kept.
type RunsConfig struct {
	RetentionDays int
	PruneSchedule string // cron spec
}

type MCPConfig struct {
	DefaultBoard    string
	UserID          string
	ApprovalTimeout time.Duration
}

// Load reads .env when present, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	dataDir := getenv("WHITEBOARD_DATA_DIR", defaultDataDir())
	cfg := Config{
		Server: ServerConfig{
			Addr:       getenv("WHITEBOARD_ADDR", ":8080"),
			CORSOrigin: getenv("WHITEBOARD_CORS_ORIGIN", "*"),
			BodyLimit:  getenvInt("WHITEBOARD_BODY_LIMIT", 4*1024*1024),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getenv("WHITEBOARD_DB_DRIVER", "sqlite")),
			DSN:    getenv("WHITEBOARD_DB_DSN", ""),
		},
		Log: LogConfig{
			Level: getenv("WHITEBOARD_LOG_LEVEL", "info"),
			Dev:   getenvBool("WHITEBOARD_DEV_LOG", false),
		},
		Runs: RunsConfig{
			RetentionDays: getenvInt("WHITEBOARD_RUN_RETENTION_DAYS", 30),
			PruneSchedule: getenv("WHITEBOARD_PRUNE_SCHEDULE", "@daily"),
		},
		MCP: MCPConfig{
			DefaultBoard:    getenv("WHITEBOARD_DEFAULT_BOARD", "default"),
			UserID:          getenv("WHITEBOARD_MCP_USER", "mcp-agent"),
			ApprovalTimeout: time.Duration(getenvInt("WHITEBOARD_APPROVAL_TIMEOUT", 120)) * time.Second,
		},
		DataDir:  dataDir,
		InboxDir: getenv("WHITEBOARD_INBOX_DIR", ""),
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.DSN == "" {
		cfg.Database.DSN = filepath.Join(dataDir, "whiteboard.db")
	}
	return cfg
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".whiteboard")
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
