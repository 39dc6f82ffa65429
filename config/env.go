package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort       = "3000"
	defaultAppEnv        = "local"
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "e-commerce"
	defaultMongoTimeout  = "10"
	defaultLogCollection = "logs"
	defaultMaxBodyBytes  = "4194304"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env once. Process environment variables
// take precedence over both files.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

// LoadFrom replaces the current values with defaults merged with the given
// files. Missing files are ignored.
func LoadFrom(configPath, envPath string) error {
	loadOnce.Do(func() {})
	return loadFromFiles(configPath, envPath)
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_PORT":             "",
		"PORT":                 "",
		"APP_ENV":              defaultAppEnv,
		"MONGO_URI":            defaultMongoURI,
		"MONGO_DATABASE":       defaultMongoDatabase,
		"MONGO_TIMEOUT":        defaultMongoTimeout,
		"LOG_MONGO":            "false",
		"LOG_MONGO_COLLECTION": defaultLogCollection,
		"MAX_BODY_BYTES":       defaultMaxBodyBytes,
		"CATALOG_STRICT":       "false",
	}
}

// AppPort falls back to PORT when APP_PORT is unset.
func AppPort() string {
	_ = Load()
	return get("APP_PORT", get("PORT", defaultAppPort))
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// ── MongoDB ──────────────────────────────────────────────────────────────────

func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", defaultMongoURI)
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DATABASE", defaultMongoDatabase)
}

// MongoTimeout bounds connect and ping at startup.
func MongoTimeout() time.Duration {
	_ = Load()
	n, err := strconv.Atoi(get("MONGO_TIMEOUT", defaultMongoTimeout))
	if err != nil || n <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n) * time.Second
}

// LogToMongo enables the asynchronous MongoDB log sink.
func LogToMongo() bool {
	return Bool("LOG_MONGO")
}

func LogMongoCollection() string {
	_ = Load()
	return get("LOG_MONGO_COLLECTION", defaultLogCollection)
}

// StrictCatalog enables the numeric range policy on products and variants.
func StrictCatalog() bool {
	return Bool("CATALOG_STRICT")
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

	for key := range loaded {
		if v, ok := os.LookupEnv(key); ok {
			loaded[key] = strings.TrimSpace(v)
		}
	}

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
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case float64, bool:
			s = fmt.Sprint(v)
		default:
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

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return get(key, fallback)
}

// Bool reports whether key holds a truthy value ("1", "true", "yes", "on").
func Bool(key string) bool {
	switch strings.ToLower(Get(key, "")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
