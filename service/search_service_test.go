package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bikefit/domain"
	"bikefit/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type brokenBikeRepo struct{}

func (brokenBikeRepo) All(context.Context) ([]domain.BikeRecord, error) {
	return nil, errors.New("database is locked")
}

func (brokenBikeRepo) Replace(context.Context, []domain.BikeRecord) error {
	return errors.New("database is locked")
}

func gridBikes(n int) []domain.BikeRecord {
	out := make([]domain.BikeRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.BikeRecord{
			Brand:    fmt.Sprintf("Brand%d", i%3),
			Model:    fmt.Sprintf("M%d", i),
			Reach:    375 + float64(i%11),
			Stack:    555 + float64(i%11),
			Material: "carbon",
		})
	}
	return out
}

func TestSearchService_Search(t *testing.T) {
	repo := repository.NewBikeRepositoryMemory(gridBikes(150))
	svc := NewSearchService(repo, 0, zaptest.NewLogger(t))

	res, err := svc.Search(context.Background(), domain.SearchCriteria{
		ReachTarget: 380,
		StackTarget: 560,
		ReachRange:  domain.Num(10),
		StackRange:  domain.Num(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 150, res.TotalMatches)
	assert.Equal(t, 100, res.Returned)
	require.Len(t, res.Results, 100)
	for i := 1; i < len(res.Results); i++ {
		assert.LessOrEqual(t, res.Results[i-1].TotalDiff, res.Results[i].TotalDiff)
	}
	assert.Equal(t, 0.0, res.Results[0].TotalDiff)
}

func TestSearchService_MaxResults(t *testing.T) {
	svc := NewSearchService(repository.NewBikeRepositoryMemory(gridBikes(30)), 5, nil)

	res, err := svc.Search(context.Background(), domain.SearchCriteria{ReachTarget: 380, StackTarget: 560})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Returned)
	assert.Equal(t, 30, res.TotalMatches)
}

func TestSearchService_Errors(t *testing.T) {
	svc := NewSearchService(brokenBikeRepo{}, 0, nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, domain.SearchCriteria{ReachTarget: 380, StackTarget: 560, ReachRange: domain.Num(-1)})
	assert.ErrorIs(t, err, ErrInvalidCriteria)

	_, err = svc.Search(ctx, domain.SearchCriteria{ReachTarget: 380, StackTarget: 560})
	assert.ErrorContains(t, err, "database is locked")

	_, err = svc.Facets(ctx)
	assert.Error(t, err)

	assert.Error(t, svc.Import(ctx, nil))
}

func TestSearchService_ImportAndFacets(t *testing.T) {
	repo := repository.NewBikeRepositoryMemory(nil)
	svc := NewSearchService(repo, 0, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, svc.Import(ctx, gridBikes(6)))

	facets, err := svc.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brand0", "Brand1", "Brand2"}, facets.Brands)
	assert.Equal(t, []string{"carbon"}, facets.Materials)
	assert.Empty(t, facets.Styles)
}
