package config

import (
	"os"
	"strconv"
	"time"
)

type TrainingConfig struct {
	MaxCredits          int
	RegenAmount         int
	RegenInterval       time.Duration
	BotSessionCost      int
	BotHandleTTL        time.Duration
	SessionHistoryLimit int
	SeedFile            string
}

func LoadTrainingConfig() *TrainingConfig {
	return &TrainingConfig{
		MaxCredits:          getEnvAsInt("TRAINING_MAX_CREDITS", 1000),
		RegenAmount:         getEnvAsInt("TRAINING_REGEN_AMOUNT", 100),
		RegenInterval:       getEnvAsDuration("TRAINING_REGEN_INTERVAL", 24*time.Hour),
		BotSessionCost:      getEnvAsInt("TRAINING_BOT_SESSION_COST", 25),
		BotHandleTTL:        getEnvAsDuration("TRAINING_BOT_HANDLE_TTL", 4*time.Hour),
		SessionHistoryLimit: getEnvAsInt("TRAINING_SESSION_HISTORY_LIMIT", 10),
		SeedFile:            getEnv("TRAINING_SEED_FILE", "./seed/scenarios.json"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
