package config

import "github.com/joho/godotenv"

// LoadDotEnv reads a .env file into the environment. Variables already set
// take precedence; a missing file is returned as an error for the caller
// to ignore.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}
