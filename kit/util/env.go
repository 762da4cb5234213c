package util

import (
	"os"
	"strconv"
	"time"
)

func GetRequireEnvString(env string) string {
	envString := os.Getenv(env)
	if envString == "" {
		panic("no set env: " + env)
	}
	return envString
}

func GetEnvString(env, fallback string) string {
	envString := os.Getenv(env)
	if envString == "" {
		return fallback
	}
	return envString
}

func GetEnvBool(env string, fallback bool) bool {
	envBool, err := strconv.ParseBool(os.Getenv(env))
	if err != nil {
		return fallback
	}
	return envBool
}

func GetEnvInt(env string, fallback int) int {
	envInt, err := strconv.Atoi(os.Getenv(env))
	if err != nil {
		return fallback
	}
	return envInt
}

// GetEnvDurationSeconds reads an integer number of seconds.
func GetEnvDurationSeconds(env string, fallback time.Duration) time.Duration {
	envInt, err := strconv.Atoi(os.Getenv(env))
	if err != nil {
		return fallback
	}
	return time.Duration(envInt) * time.Second
}
