package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bikefit/config"
	"bikefit/repository"
	"bikefit/service"

	"go.uber.org/zap"
)

const pingTimeout = 3 * time.Second

// stores is the persistence a command runs against.
type stores struct {
	bikes        repository.BikeRepository
	calculations repository.CalculationRepository
	cache        repository.CacheRepository
	closers      []func() error
}

func (s *stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// openStores builds the repositories selected by cfg and seeds the bike
// dataset from the configured CSV, if any.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	s := &stores{}

	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := repository.OpenSQLite(cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		s.bikes, s.calculations = db, db
		s.closers = append(s.closers, db.Close)
	default:
		s.bikes = repository.NewBikeRepositoryMemory(nil)
		s.calculations = repository.NewCalculationRepositoryMemory(service.MaxRecentCalculations)
	}

	switch cfg.Cache.Backend {
	case config.BackendRedis:
		sharded := repository.NewShardedRedisCache(cfg.Cache.RedisAddrs, cfg.Cache.TTL)
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		// an unreachable cache only costs recomputation
		if err := sharded.Ping(pctx); err != nil {
			logger.Warn("redis cache unreachable", zap.Strings("addrs", cfg.Cache.RedisAddrs), zap.Error(err))
		}
		s.cache = sharded
		s.closers = append(s.closers, sharded.Close)
	case config.BackendMemory:
		s.cache = repository.NewMemoryCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}

	if cfg.Store.DatasetCSV != "" {
		if err := seedBikes(ctx, s.bikes, cfg.Store.DatasetCSV, logger); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func seedBikes(ctx context.Context, bikes repository.BikeRepository, path string, logger *zap.Logger) error {
	records, skipped, err := repository.LoadBikesCSVFile(path)
	if err != nil {
		return fmt.Errorf("load bike dataset: %w", err)
	}
	if err := bikes.Replace(ctx, records); err != nil {
		return fmt.Errorf("store bike dataset: %w", err)
	}
	logger.Info("bike dataset loaded",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
	)
	return nil
}

func fitOptions(cfg *config.Config) service.FitOptions {
	if !cfg.Fit.STAFallback.Enabled {
		return service.FitOptions{}
	}
	return service.FitOptions{STAFallback: cfg.Fit.STAFallback.Angle}
}
