package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// apiConfig carries every externally supplied value and injected dependency
// the fetcher needs. It is built once at startup and passed around
// explicitly; nothing reads configuration from globals.
type apiConfig struct {
	apiKey          string
	baseURL         string
	defaultCity     string
	defaultCountry  string
	defaultLat      float64
	defaultLon      float64
	displayName     string
	language        string
	forecastDays    int
	useCache        bool
	cache           Cache
	weatherLabels   map[string]string
	httpClient      *http.Client
	forecastClient  *http.Client
	compareDelay    time.Duration
	sleep           func(time.Duration)
	refreshInterval time.Duration
	port            string
	devMode         bool
	logger          *slog.Logger
}

// getRequiredEnv retrieves an environment variable by key, and fatals if it's not set.
func getRequiredEnv(key string, logger *slog.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		logger.Error("environment variable must be set", "key", key)
		os.Exit(1)
	}
	return val
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer, with a fallback value.
func getEnvAsInt(key string, fallback int, logger *slog.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		logger.Warn("invalid integer value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

// getEnvAsFloat retrieves an environment variable as a float, with a fallback value.
func getEnvAsFloat(key string, fallback float64, logger *slog.Logger) float64 {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		logger.Warn("invalid float value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

// getEnvAsBool retrieves an environment variable as a boolean, with a fallback value.
func getEnvAsBool(key string, fallback bool, logger *slog.Logger) bool {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		logger.Warn("invalid boolean value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

func config() *apiConfig {
	devModeStr := os.Getenv("DEV_MODE")
	devMode, err := strconv.ParseBool(devModeStr)
	if err != nil {
		devMode = false
	}

	var logger *slog.Logger
	if devMode {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	apiKey := getRequiredEnv("OPENWEATHER_API_KEY", logger)

	useCache := getEnvAsBool("USE_CACHE", true, logger)
	cacheWindow := time.Duration(getEnvAsInt("CACHE_HOURS", 1, logger)) * time.Hour

	var cache Cache
	if useCache {
		switch backend := getEnv("CACHE_BACKEND", "file", logger); backend {
		case "redis":
			redisURL := getRequiredEnv("REDIS_URL", logger)
			opt, err := redis.ParseURL(redisURL)
			if err != nil {
				logger.Error("could not parse Redis URL", "error", err)
				os.Exit(1)
			}
			redisClient := redis.NewClient(opt)
			if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
				logger.Error("could not connect to Redis", "error", err)
				os.Exit(1)
			}
			cache = NewRedisCache(redisClient, cacheWindow)
		case "file":
			fileCache, err := NewFileCache(getEnv("CACHE_DIR", "data/raw", logger), cacheWindow)
			if err != nil {
				logger.Error("could not set up file cache", "error", err)
				os.Exit(1)
			}
			cache = fileCache
		default:
			logger.Error("unknown cache backend", "backend", backend)
			os.Exit(1)
		}
	}

	refreshIntervalMin := getEnvAsInt("REFRESH_INTERVAL_MIN", 0, logger)

	cfg := apiConfig{
		apiKey:         apiKey,
		baseURL:        getEnv("OWM_BASE_URL", "https://api.openweathermap.org/data/2.5", logger),
		defaultCity:    getEnv("WEATHER_CITY", "Guilin", logger),
		defaultCountry: getEnv("WEATHER_COUNTRY", "CN", logger),
		defaultLat:     getEnvAsFloat("WEATHER_LAT", 25.2741, logger),
		defaultLon:     getEnvAsFloat("WEATHER_LON", 110.2993, logger),
		displayName:    getEnv("CITY_DISPLAY_NAME", "桂林", logger),
		language:       getEnv("LANGUAGE", "zh_cn", logger),
		forecastDays:   getEnvAsInt("FORECAST_DAYS", 5, logger),
		useCache:       useCache,
		cache:          cache,
		weatherLabels:  defaultWeatherLabels(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		forecastClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		compareDelay:    1100 * time.Millisecond,
		sleep:           time.Sleep,
		refreshInterval: time.Duration(refreshIntervalMin) * time.Minute,
		port:            getEnv("PORT", "8080", logger),
		devMode:         devMode,
		logger:          logger,
	}

	return &cfg
}
