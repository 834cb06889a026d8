// Package config loads this module's environment-variable surface (§6),
// generalizing the teacher's getEnvWithDefault helper and layering in a
// .env file via godotenv the way every other backend in the retrieval
// pack does at startup.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config is the environment-driven configuration shared by every tool
// server and CLI in this module.
type Config struct {
	CompanyFile        string
	InputsDir          string
	DataDir            string
	ConfigDir          string
	BackupDir          string
	GSTClearingAccount string
	Port               string
}

func init() {
	// Best effort: a missing .env is not an error, it's the common case.
	_ = godotenv.Load()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the module's standard environment variables, defaulting
// paths relative to the current working directory per §6.
func Load() Config {
	return Config{
		CompanyFile:        getEnv("AI_ACCOUNTING_COMPANY_FILE", "data/company_file.json"),
		InputsDir:          getEnv("AI_ACCOUNTING_INPUTS_DIR", "inputs"),
		DataDir:            getEnv("AI_ACCOUNTING_DATA_DIR", "data"),
		ConfigDir:          getEnv("AI_ACCOUNTING_CONFIG_DIR", "config"),
		BackupDir:          getEnv("AI_ACCOUNTING_BACKUP_DIR", "backups"),
		GSTClearingAccount: getEnv("GST_CLEARING_ACCOUNT_CODE", "506"),
		Port:               getEnv("PORT", "8095"),
	}
}
