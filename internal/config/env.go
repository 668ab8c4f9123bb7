package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	envOnce   sync.Once
	envLoaded string
)

// LoadEnv loads a .env file from the working directory or its parent, once
// per process. Variables already present in the environment win. It returns
// the file that was loaded, or "" when none was found.
func LoadEnv() string {
	envOnce.Do(func() {
		for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if err := godotenv.Load(candidate); err == nil {
				envLoaded = candidate
			}
			return
		}
	})
	return envLoaded
}
