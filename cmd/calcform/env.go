package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// loadDotEnv loads variables from path. A missing default file is ignored; a
// missing file the user named explicitly is an error. Variables already set
// in the process environment win.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if !explicit && errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}
