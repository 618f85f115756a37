package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort      = "8080"
	defaultGRPCPort     = "9090"
	defaultAppEnv       = "local"
	defaultAppKey       = "change-me-in-production"
	defaultDataDir      = "storage/till"
	defaultRedisAddr    = ""
	defaultGeminiModel  = "gemini-2.5-flash"
	defaultGeminiURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultExportDisk   = "local"
	defaultInsightTTL   = "10m"
	defaultMongoDB      = "till"
	defaultMongoLogColl = "logs"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":          defaultAppEnv,
		"APP_PORT":         defaultAppPort,
		"GRPC_PORT":        defaultGRPCPort,
		"APP_KEY":          defaultAppKey,
		"DATA_DIR":         defaultDataDir,
		"REDIS_ADDR":       defaultRedisAddr,
		"REDIS_PASSWORD":   "",
		"GEMINI_API_KEY":   "",
		"GEMINI_MODEL":     defaultGeminiModel,
		"GEMINI_BASE_URL":  defaultGeminiURL,
		"EXPORT_DISK":      defaultExportDisk,
		"EXPORT_SCHEDULE":  "",
		"INSIGHT_CACHE":    defaultInsightTTL,
		"LOG_MONGO_URI":    "",
		"LOG_MONGO_DB":     defaultMongoDB,
		"LOG_MONGO_COLL":   defaultMongoLogColl,
		"STORAGE_URL":      "http://localhost:8080/storage",
		"S3_REGION":        "us-east-1",
		"S3_BUCKET":        "",
		"S3_KEY":           "",
		"S3_SECRET":        "",
		"S3_ENDPOINT":      "",
		"S3_URL":           "",
		"CORS_ORIGINS":     "*",
	}
}

func AppEnv() string   { _ = Load(); return get("APP_ENV", defaultAppEnv) }
func AppPort() string  { _ = Load(); return get("APP_PORT", defaultAppPort) }
func GRPCPort() string { _ = Load(); return get("GRPC_PORT", defaultGRPCPort) }

// AppKey is the secret the settings credential is encrypted with.
func AppKey() string { _ = Load(); return get("APP_KEY", defaultAppKey) }

// DataDir is the root of the local store (products, transactions, settings).
func DataDir() string { _ = Load(); return get("DATA_DIR", defaultDataDir) }

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

// ── Insight ──────────────────────────────────────────────────────────────────

func GeminiAPIKey() string  { _ = Load(); return get("GEMINI_API_KEY", "") }
func GeminiModel() string   { _ = Load(); return get("GEMINI_MODEL", defaultGeminiModel) }
func GeminiBaseURL() string { _ = Load(); return get("GEMINI_BASE_URL", defaultGeminiURL) }
func InsightCacheTTL() string {
	_ = Load()
	return get("INSIGHT_CACHE", defaultInsightTTL)
}

// ── Export ───────────────────────────────────────────────────────────────────

func ExportDisk() string     { _ = Load(); return get("EXPORT_DISK", defaultExportDisk) }
func ExportSchedule() string { _ = Load(); return get("EXPORT_SCHEDULE", "") }

// ── Logging ──────────────────────────────────────────────────────────────────

func LogMongoURI() string        { _ = Load(); return get("LOG_MONGO_URI", "") }
func LogMongoDB() string         { _ = Load(); return get("LOG_MONGO_DB", defaultMongoDB) }
func LogMongoCollection() string { _ = Load(); return get("LOG_MONGO_COLL", defaultMongoLogColl) }

// CORSOrigins returns the comma-separated CORS_ORIGINS value as a slice.
func CORSOrigins() []string {
	_ = Load()
	var out []string
	for _, o := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mergeEnviron(loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

// mergeEnviron lets real environment variables win over both files for every
// known key.
func mergeEnviron(out map[string]string) {
	for key := range defaultValues() {
		if v, ok := os.LookupEnv(key); ok {
			out[key] = strings.TrimSpace(v)
		}
	}
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a key at runtime. Intended for tests and CLI flags.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}
