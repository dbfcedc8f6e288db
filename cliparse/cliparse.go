// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-tally/db"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	PrecinctsFile   string
	CandidatesFile  string
	OperatorKeySalt string
	EnvFile         string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	flags := flag.NewFlagSet("quickly-tally", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Reference data
	flags.StringVar(&cfg.PrecinctsFile, "precincts", "", "Precinct reference file (YAML or JSON)")
	flags.StringVar(&cfg.CandidatesFile, "candidates", "", "Candidate seed file; the ledger's candidate table is used when empty")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.OperatorKeySalt, "operator-salt", "", "Operator key salt (prefer env)")

	flags.StringVar(&cfg.EnvFile, "env", ".env", "Optional .env file")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	// A missing .env file is fine; values already in the environment win.
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = db.TypeSQLite
		}
	}
	if _, err := db.DriverName(cfg.DatabaseType); err != nil {
		return Config{}, err
	}

	if cfg.PrecinctsFile == "" {
		cfg.PrecinctsFile = os.Getenv("PRECINCTS_FILE")
	}
	if cfg.PrecinctsFile == "" {
		return Config{}, errors.New("precinct file required (use -precincts or PRECINCTS_FILE env)")
	}
	if cfg.CandidatesFile == "" {
		cfg.CandidatesFile = os.Getenv("CANDIDATES_FILE")
	}

	// Secrets - MUST be provided
	if cfg.OperatorKeySalt == "" {
		cfg.OperatorKeySalt = os.Getenv("OPERATOR_KEY_SALT")
	}
	if cfg.OperatorKeySalt == "" {
		return Config{}, errors.New("OPERATOR_KEY_SALT required")
	}

	return cfg, nil
}
