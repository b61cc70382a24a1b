package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bikefit/domain"
	"bikefit/repository"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrUnknownCalculation = errors.New("unknown calculation type")
	ErrInvalidPayload     = errors.New("invalid calculation data")
)

// CalculatorService dispatches calculation requests by kind, caching results
// and keeping a history of what was computed.
type CalculatorService struct {
	fit    *FitService
	repo   repository.CalculationRepository
	cache  repository.CacheRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewCalculatorService creates a CalculatorService. repo and cache may be nil,
// in which case nothing is recorded or cached.
func NewCalculatorService(
	fit *FitService,
	repo repository.CalculationRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *CalculatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalculatorService{
		fit:    fit,
		repo:   repo,
		cache:  cache,
		logger: logger.Named("calculator"),
		now:    time.Now,
	}
}

// Calculate runs the calculation named by kind on the raw JSON data and
// returns the result object as JSON.
func (s *CalculatorService) Calculate(ctx context.Context, kind string, data []byte) (jsoniter.RawMessage, error) {
	input, run, err := s.prepare(kind, data)
	if err != nil {
		return nil, err
	}

	// Re-encoding normalizes key order, whitespace and numeric strings, so
	// equivalent requests share a cache entry.
	canonical, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode %s input: %w", kind, err)
	}
	key := s.cacheKey(kind, canonical)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			s.logger.Debug("cache hit", zap.String("kind", kind), zap.String("key", key))
			s.record(ctx, kind, canonical, []byte(cached))
			return jsoniter.RawMessage(cached), nil
		}
	}

	result, err := json.Marshal(run())
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", kind, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, string(result)); err != nil {
			s.logger.Warn("failed to cache calculation", zap.String("kind", kind), zap.Error(err))
		}
	}
	s.record(ctx, kind, canonical, result)
	return result, nil
}

// prepare decodes data into the input type for kind and returns the input
// together with the calculation bound to it.
func (s *CalculatorService) prepare(kind string, data []byte) (any, func() any, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}
	switch kind {
	case KindPositionSimulator:
		var in PositionSimulatorInput
		if err := decode(data, &in); err != nil {
			return nil, nil, err
		}
		return in, func() any { return s.fit.PositionSimulator(in) }, nil
	case KindSeatpost:
		var in SeatpostInput
		if err := decode(data, &in); err != nil {
			return nil, nil, err
		}
		return in, func() any { return s.fit.Seatpost(in) }, nil
	case KindStackReach:
		var in StackReachInput
		if err := decode(data, &in); err != nil {
			return nil, nil, err
		}
		return in, func() any { return s.fit.StackReach(in) }, nil
	case KindStem:
		var in StemCalcInput
		if err := decode(data, &in); err != nil {
			return nil, nil, err
		}
		return in, func() any { return s.fit.Stem(in) }, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownCalculation, kind)
	}
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// cacheKey includes the fallback angle since it changes results for the same
// input.
func (s *CalculatorService) cacheKey(kind string, canonical []byte) string {
	h := xxhash.New()
	_, _ = h.Write(canonical)
	_, _ = h.WriteString(strconv.FormatFloat(s.fit.opts.STAFallback, 'g', -1, 64))
	return fmt.Sprintf("%s:%s:%016x", cacheKeyPrefix, kind, h.Sum64())
}

func (s *CalculatorService) record(ctx context.Context, kind string, input, result []byte) {
	if s.repo == nil {
		return
	}
	rec := domain.CalculationRecord{
		ID:        uuid.NewString(),
		Kind:      kind,
		Input:     input,
		Result:    result,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.Warn("failed to save calculation", zap.String("kind", kind), zap.Error(err))
	}
}

// Recent lists saved calculations, newest first. limit is clamped to
// [1, MaxRecentCalculations]; zero or less means DefaultRecentCalculations.
func (s *CalculatorService) Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	if s.repo == nil {
		return []domain.CalculationRecord{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultRecentCalculations
	case limit > MaxRecentCalculations:
		limit = MaxRecentCalculations
	}
	recs, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return recs, nil
}
