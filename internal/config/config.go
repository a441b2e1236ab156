package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/stellar/go/network"
)

// Config holds all client configuration. Both external collaborators (the
// persistence service and the Horizon ledger endpoint) are addressed here so
// tests can point the client at local doubles.
type Config struct {
	APIBase    string // persistence service base URL, including /api prefix
	Token      string // opaque bearer credential for the persistence service
	Horizon    string // Horizon endpoint
	Friendbot  string // testnet faucet endpoint
	Passphrase string // network passphrase transactions are signed for
	DBPath     string // local keystore/receipt cache location
	TimeoutMs  int    // per-request timeout for persistence calls
	LogCalls   bool   // emit call events to stderr
}

// DefaultConfig returns a Config targeting the local development stack and
// the public Stellar testnet.
func DefaultConfig() Config {
	return Config{
		APIBase:    "http://localhost:8080/api",
		Horizon:    "https://horizon-testnet.stellar.org",
		Friendbot:  "https://friendbot.stellar.org",
		Passphrase: network.TestNetworkPassphrase,
		TimeoutMs:  15000,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset values. The keystore path defaults to
// ~/.cleargive/cleargive.db.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CLEARGIVE_API"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("CLEARGIVE_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("CLEARGIVE_HORIZON"); v != "" {
		cfg.Horizon = v
	}
	if v := os.Getenv("CLEARGIVE_FRIENDBOT"); v != "" {
		cfg.Friendbot = v
	}
	if v := os.Getenv("CLEARGIVE_NETWORK_PASSPHRASE"); v != "" {
		cfg.Passphrase = v
	}
	if v := os.Getenv("CLEARGIVE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CLEARGIVE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("CLEARGIVE_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	if cfg.DBPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DBPath = filepath.Join(home, ".cleargive", "cleargive.db")
		}
	}

	return cfg
}
