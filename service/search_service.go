package service

import (
	"context"
	"errors"
	"fmt"

	"bikefit/domain"
	"bikefit/repository"
	"bikefit/search"

	"go.uber.org/zap"
)

var ErrInvalidCriteria = errors.New("invalid search criteria")

// SearchService answers geometry searches over the bike dataset.
type SearchService struct {
	bikes      repository.BikeRepository
	maxResults int
	logger     *zap.Logger
}

func NewSearchService(bikes repository.BikeRepository, maxResults int, logger *zap.Logger) *SearchService {
	if maxResults <= 0 {
		maxResults = search.DefaultMaxResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{bikes: bikes, maxResults: maxResults, logger: logger.Named("search")}
}

// Search returns the bikes within the reach/stack window around the target,
// closest first.
func (s *SearchService) Search(ctx context.Context, c domain.SearchCriteria) (domain.SearchResult, error) {
	if c.ReachRange.Set && c.ReachRange.Value < 0 {
		return domain.SearchResult{}, fmt.Errorf("%w: negative reach range", ErrInvalidCriteria)
	}
	if c.StackRange.Set && c.StackRange.Value < 0 {
		return domain.SearchResult{}, fmt.Errorf("%w: negative stack range", ErrInvalidCriteria)
	}

	records, err := s.bikes.All(ctx)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("load bikes: %w", err)
	}
	res := search.Search(records, c, s.maxResults)
	s.logger.Debug("search",
		zap.Float64("reach", c.ReachTarget),
		zap.Float64("stack", c.StackTarget),
		zap.Int("matches", res.TotalMatches),
		zap.Int("returned", res.Returned),
	)
	return res, nil
}

func (s *SearchService) Facets(ctx context.Context) (domain.Facets, error) {
	records, err := s.bikes.All(ctx)
	if err != nil {
		return domain.Facets{}, fmt.Errorf("load bikes: %w", err)
	}
	return search.FacetsOf(records), nil
}

// Import replaces the dataset.
func (s *SearchService) Import(ctx context.Context, records []domain.BikeRecord) error {
	if err := s.bikes.Replace(ctx, records); err != nil {
		return fmt.Errorf("replace bikes: %w", err)
	}
	s.logger.Info("bike dataset replaced", zap.Int("records", len(records)))
	return nil
}
