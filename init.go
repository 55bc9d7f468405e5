package forecastlab

import (
	"os"
	"strconv"
	"time"

	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/logger/zerolog"

	"github.com/xhit/go-str2duration/v2"
)

// DefaultLog is the default logger instance
var DefaultLog core.Logger

// defaultTrainTimeout caps each strategy's training time; zero means no cap
var defaultTrainTimeout time.Duration

const (
	// Default configuration values
	defaultLogLevel      = "info"
	defaultLogTimeFormat = "2006-01-02 15:04:05"
	defaultLogColored    = "true"
	defaultLogJSON       = "false"
)

// Environment variable names
const (
	envLogLevel      = "FORECASTLAB_LOG_LEVEL"
	envLogTimeFormat = "FORECASTLAB_LOG_TIME_FORMAT"
	envLogColor      = "FORECASTLAB_LOG_COLOR"
	envLogJSON       = "FORECASTLAB_LOG_JSON"
	envTrainTimeout  = "FORECASTLAB_TRAIN_TIMEOUT"
)

func init() {
	// Initialize the logger with configuration from environment variables
	log, err := initLogger()
	if err != nil {
		panic(err)
	}

	DefaultLog = zerolog.NewAdapter(log.Logger)

	defaultTrainTimeout, err = initTrainTimeout()
	if err != nil {
		panic(err)
	}
}

// initLogger creates a new logger instance configured from environment variables
func initLogger() (*zerolog.Logger, error) {
	// Get configuration from environment variables with defaults
	logLevel := getEnvWithDefault(envLogLevel, defaultLogLevel)
	logTimeFormat := getEnvWithDefault(envLogTimeFormat, defaultLogTimeFormat)

	// Parse boolean configurations
	logColored, err := parseBoolEnv(envLogColor, defaultLogColored)
	if err != nil {
		return nil, err
	}

	logJSON, err := parseBoolEnv(envLogJSON, defaultLogJSON)
	if err != nil {
		return nil, err
	}

	// Create and return the logger
	return zerolog.New(logLevel, logTimeFormat, logColored, logJSON)
}

// initTrainTimeout reads the optional per-strategy training deadline
func initTrainTimeout() (time.Duration, error) {
	value := os.Getenv(envTrainTimeout)
	if value == "" {
		return 0, nil
	}
	return str2duration.ParseDuration(value)
}

// getEnvWithDefault returns the value of the environment variable or the default if not set
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseBoolEnv gets a boolean environment variable with a default value
func parseBoolEnv(key, defaultValue string) (bool, error) {
	value := getEnvWithDefault(key, defaultValue)
	return strconv.ParseBool(value)
}
