package config

import "os"

// Config is read once at startup; the AI credential is treated as an opaque
// secret and injected into the provider adapter, never read again.
type Config struct {
	ListenAddr   string
	DBPath       string
	ImagePath    string
	AIBackend    string
	GeminiAPIKey string
	GeminiModel  string
	ClaudeAPIKey string
	ClaudeModel  string
	LogLevel     string
	LogFile      string
}

func Load() *Config {
	return &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		DBPath:       getEnv("DB_PATH", "/data/plantsage.db"),
		ImagePath:    getEnv("IMAGE_PATH", "/data/images"),
		AIBackend:    getEnv("AI_BACKEND", "gemini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),
		ClaudeAPIKey: getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:  getEnv("CLAUDE_MODEL", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
