package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file into the process environment, searching
// the working directory and its parents so the tool works from a
// subdirectory of a checkout. Existing environment variables win.
func LoadEnv() {
	if path := findEnvFile(); path != "" {
		_ = godotenv.Load(path)
	}
}

func findEnvFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
