// Package credentials checks the Application Default Credentials setup the
// rest of the toolkit relies on, with optional .env loading for local work.
package credentials

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvCredentials is the environment variable Google client libraries read
// for a service account key file.
const EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"

// EnvProject is the environment variable naming the default project.
const EnvProject = "GOOGLE_CLOUD_PROJECT"

// LoadEnv loads variables from .env files into the process environment.
// With no arguments it loads ".env" from the working directory; a missing
// default file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); os.IsNotExist(err) {
			return nil
		}
		return godotenv.Load()
	}
	return godotenv.Load(files...)
}

// Check verifies that GOOGLE_APPLICATION_CREDENTIALS points at a readable
// file and returns its path. Inside GCP, where the metadata server provides
// credentials, the variable may legitimately be unset; callers decide how
// strict to be.
func Check() (string, error) {
	path := os.Getenv(EnvCredentials)
	if path == "" {
		return "", fmt.Errorf("%s is not set", EnvCredentials)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("credential file %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("credential path %s is a directory", path)
	}
	return path, nil
}

// Project returns the project ID from the environment, or empty.
func Project() string {
	return os.Getenv(EnvProject)
}
