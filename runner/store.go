package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosom/saas-funnel-demo/session"
	"github.com/gosom/saas-funnel-demo/session/memory"
	"github.com/gosom/saas-funnel-demo/session/redisstore"
	"github.com/gosom/saas-funnel-demo/session/sqlite"
)

// NewStore builds the session store backend selected by the config.
func NewStore(cfg *Config) (session.Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return memory.New(), nil
	case BackendRedis:
		return redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case BackendSQLite:
		if cfg.DataFolder == "" {
			return nil, fmt.Errorf("data folder is required")
		}

		if err := os.MkdirAll(cfg.DataFolder, os.ModePerm); err != nil {
			return nil, err
		}

		return sqlite.New(filepath.Join(cfg.DataFolder, "sessions.db"))
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
