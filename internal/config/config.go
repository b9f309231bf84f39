package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey         string
	GeminiAPIKeyParam    string // SSM parameter holding the key, used when GeminiAPIKey is empty
	GeminiModel          string
	GeminiBaseURL        string
	GeminiTransport      string // "rest" | "sdk"
	GeminiTemperature    float64
	GeminiTimeout        time.Duration
	GeminiMaxRetries     int
	GeminiConcurrentReqs int

	// Prompt
	InstructionPath string

	// Rate limiting
	RedisURL        string
	ChatRateLimit   int
	ChatRateWindow  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:         getEnvOrDefault("GOOGLE_GEMINI_API_KEY", os.Getenv("GEMINI_API_KEY")),
		GeminiAPIKeyParam:    getEnvOrDefault("GEMINI_API_KEY_PARAM", ""),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		GeminiBaseURL:        getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiTransport:      getEnvOrDefault("GEMINI_TRANSPORT", "rest"),
		GeminiTemperature:    getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", 0.7),
		GeminiTimeout:        getEnvAsDurationOrDefault("GEMINI_TIMEOUT", 30*time.Second),
		GeminiMaxRetries:     getEnvAsIntOrDefault("GEMINI_MAX_RETRIES", 0),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		InstructionPath:      getEnvOrDefault("INSTRUCTION_PATH", ""),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		ChatRateLimit:        getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 30),
		ChatRateWindow:       getEnvAsDurationOrDefault("CHAT_RATE_WINDOW", time.Minute),
		ReadTimeout:          getEnvAsDurationOrDefault("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:         getEnvAsDurationOrDefault("WRITE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:      getEnvAsDurationOrDefault("SHUTDOWN_TIMEOUT", 30*time.Second),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// getEnvAsDurationOrDefault accepts Go durations ("45s") or plain seconds ("45").
// Zero and negative values fall back to the default.
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		n, err := strconv.Atoi(val)
		if err != nil {
			return defaultVal
		}
		d = time.Duration(n) * time.Second
	}
	if d <= 0 {
		return defaultVal
	}
	return d
}
