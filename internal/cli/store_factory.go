package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/flowline/internal/config"
	"github.com/aretw0/flowline/pkg/adapters/memory"
	"github.com/aretw0/flowline/pkg/adapters/redis"
	"github.com/aretw0/flowline/pkg/adapters/sqlite"
	"github.com/aretw0/flowline/pkg/persistence/middleware"
	"github.com/aretw0/flowline/pkg/ports"
)

// Persistence bundles the run store selected by configuration.
// Locker is nil unless the redis driver runs with distributed locking.
type Persistence struct {
	Store  ports.RunStore
	Locker ports.RunLocker
	closer io.Closer
}

// Close releases the backing connection, if any.
func (p Persistence) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// CreateStore opens the run store named by cfg.Driver and wraps it with
// the configured masking and encryption middleware.
func CreateStore(cfg config.StoreConfig, logger *slog.Logger) (Persistence, error) {
	p, err := openStore(cfg, logger)
	if err != nil {
		return Persistence{}, err
	}

	var mws []middleware.Middleware
	if len(cfg.MaskFields) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.MaskFields))
	}
	if cfg.EncryptionKey != "" {
		enc, err := encryptionConfig(cfg)
		if err != nil {
			_ = p.Close()
			return Persistence{}, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(enc))
		logger.Info("run records are encrypted at rest", "fallback_keys", len(enc.FallbackKeys))
	}
	p.Store = middleware.Chain(p.Store, mws...)
	return p, nil
}

func encryptionConfig(cfg config.StoreConfig) (middleware.EncryptionConfig, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return middleware.EncryptionConfig{}, err
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for _, k := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return middleware.EncryptionConfig{}, fmt.Errorf("fallback key: %w", err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return enc, nil
}

func openStore(cfg config.StoreConfig, logger *slog.Logger) (Persistence, error) {
	switch cfg.Driver {
	case "", config.StoreMemory:
		logger.Debug("using in-memory run store")
		return Persistence{Store: memory.NewStore()}, nil

	case config.StoreRedis:
		var opts []redis.Option
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		p := Persistence{Store: store, closer: store}
		if cfg.DistributedLock {
			p.Locker = redis.NewLocker(store.Client(), "flowline:")
		}
		logger.Info("using redis run store", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "distributed_lock", cfg.DistributedLock)
		return p, nil

	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return Persistence{}, err
		}
		logger.Info("using sqlite run store", "path", cfg.SQLitePath)
		return Persistence{Store: store, closer: store}, nil
	}
	return Persistence{}, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
