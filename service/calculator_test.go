package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bikefit/domain"
	"bikefit/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingCache struct {
	*repository.MemoryCache
	sets int
	err  error
}

func (c *countingCache) Set(ctx context.Context, key, value string) error {
	c.sets++
	if c.err != nil {
		return c.err
	}
	return c.MemoryCache.Set(ctx, key, value)
}

type failingCalculationRepo struct{}

func (failingCalculationRepo) Save(context.Context, domain.CalculationRecord) error {
	return errors.New("disk full")
}

func (failingCalculationRepo) Recent(context.Context, int) ([]domain.CalculationRecord, error) {
	return nil, errors.New("disk full")
}

func newTestCalculator(t *testing.T, opts FitOptions) (*CalculatorService, *repository.CalculationRepositoryMemory, *countingCache) {
	t.Helper()
	repo := repository.NewCalculationRepositoryMemory(MaxRecentCalculations)
	cache := &countingCache{MemoryCache: repository.NewMemoryCache(100, 0)}
	svc := NewCalculatorService(NewFitService(opts), repo, cache, zaptest.NewLogger(t))
	return svc, repo, cache
}

func TestCalculatorService_Calculate(t *testing.T) {
	svc, _, _ := newTestCalculator(t, FitOptions{})
	ctx := context.Background()

	out, err := svc.Calculate(ctx, KindPositionSimulator, []byte(`{
		"reach": 380, "stack": "560", "headTubeAngle": 73,
		"seatTubeAngle": 73, "seatTubeLength": 500,
		"saddleX": 150, "saddleY": 600,
		"targetHandlebarX": 460, "targetHandlebarY": "630"
	}`))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, 463.5, got["handlebarX"])
	assert.Equal(t, 626.9, got["handlebarY"])
	assert.Equal(t, 4.0, got["handlebarXDiff"])
	assert.Equal(t, -3.0, got["handlebarYDiff"])
	assert.Equal(t, "--", got["barReachNeeded"])
	assert.Equal(t, 76.0, got["effectiveSTA"])
	assert.Equal(t, 618.0, got["bbToSRC"])
	assert.Equal(t, true, got["saddleValid"])
}

func TestCalculatorService_SentinelOutputs(t *testing.T) {
	svc, _, _ := newTestCalculator(t, FitOptions{})

	out, err := svc.Calculate(context.Background(), KindSeatpost, []byte(`{"saddleX": 50, "saddleY": 600, "seatTubeAngle": 73}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"effectiveSTA": "--", "setbackVsSTA": "--", "bbToRail": "--",
		"exposedSeatpost": "--", "bbToSRC": "--",
		"saddleValid": false, "seatTubeAngleUsed": 73
	}`, string(out))
}

func TestCalculatorService_CacheHit(t *testing.T) {
	svc, repo, cache := newTestCalculator(t, FitOptions{})
	ctx := context.Background()

	first, err := svc.Calculate(ctx, KindStem, []byte(`{"headTubeAngle": 73, "stemLength": 110}`))
	require.NoError(t, err)
	// same input, different spelling
	second, err := svc.Calculate(ctx, KindStem, []byte(`{"stemLength":"110","headTubeAngle":"73.0"}`))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, cache.Len())

	recs, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestCalculatorService_CacheKeyIncludesFallback(t *testing.T) {
	strict, _, _ := newTestCalculator(t, FitOptions{})
	lenient, _, _ := newTestCalculator(t, FitOptions{STAFallback: 73})
	assert.NotEqual(t,
		strict.cacheKey(KindSeatpost, []byte(`{}`)),
		lenient.cacheKey(KindSeatpost, []byte(`{}`)),
	)
}

func TestCalculatorService_Errors(t *testing.T) {
	svc, repo, _ := newTestCalculator(t, FitOptions{})
	ctx := context.Background()

	_, err := svc.Calculate(ctx, "frame-builder", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownCalculation)

	_, err = svc.Calculate(ctx, KindStem, []byte(`[1, 2`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	recs, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCalculatorService_EmptyDataUsesDefaults(t *testing.T) {
	svc, _, _ := newTestCalculator(t, FitOptions{})

	out, err := svc.Calculate(context.Background(), KindStem, nil)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "--", got["effectiveReach"])
	assert.Equal(t, map[string]any{
		"stemHeight": 40.0, "stemLength": 100.0, "stemAngle": -6.0,
		"spacersHeight": 20.0, "headsetHeight": 10.0,
	}, got["stem"])
}

func TestCalculatorService_StoreFailuresAreNotFatal(t *testing.T) {
	cache := &countingCache{MemoryCache: repository.NewMemoryCache(100, 0), err: errors.New("redis down")}
	svc := NewCalculatorService(NewFitService(FitOptions{}), failingCalculationRepo{}, cache, zaptest.NewLogger(t))

	out, err := svc.Calculate(context.Background(), KindStackReach, []byte(`{"headTubeAngle": 73}`))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"effectiveReach":83.5`)
	assert.Equal(t, 0, cache.Len())
}

func TestCalculatorService_Recent(t *testing.T) {
	svc, _, _ := newTestCalculator(t, FitOptions{})
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	svc.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}

	for _, kind := range []string{KindSeatpost, KindStem, KindStackReach} {
		_, err := svc.Calculate(ctx, kind, []byte(`{}`))
		require.NoError(t, err)
	}

	recs, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, KindStackReach, recs[0].Kind)
	assert.Equal(t, KindSeatpost, recs[2].Kind)
	assert.Equal(t, base.Add(3*time.Second), recs[0].CreatedAt)
	assert.NotEmpty(t, recs[0].ID)
	assert.JSONEq(t, string(recs[0].Result), string(mustCalculate(t, svc, KindStackReach)))

	recs, err = svc.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	empty := NewCalculatorService(NewFitService(FitOptions{}), nil, nil, nil)
	recs, err = empty.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func mustCalculate(t *testing.T, svc *CalculatorService, kind string) []byte {
	t.Helper()
	out, err := svc.Calculate(context.Background(), kind, []byte(`{}`))
	require.NoError(t, err)
	return out
}

func TestCalculatorService_MemoryStoresStayBounded(t *testing.T) {
	repo := repository.NewCalculationRepositoryMemory(MaxRecentCalculations)
	cache := repository.NewMemoryCache(500, 0)
	svc := NewCalculatorService(NewFitService(FitOptions{}), repo, cache, nil)
	ctx := context.Background()

	for i := 0; i < 2000; i++ {
		data := fmt.Sprintf(`{"saddleX": %d, "saddleY": %d, "seatTubeAngle": 73}`, 100+i%200, 425+i/200)
		_, err := svc.Calculate(ctx, KindSeatpost, []byte(data))
		require.NoError(t, err)
	}

	assert.Equal(t, 500, cache.Len())
	assert.Equal(t, MaxRecentCalculations, repo.Len())

	recs, err := svc.Recent(ctx, MaxRecentCalculations)
	require.NoError(t, err)
	require.Len(t, recs, MaxRecentCalculations)
	// newest first: saddleX 100+1999%200, saddleY 425+1999/200
	assert.JSONEq(t, `{"saddleX":299,"saddleY":434,"seatTubeAngle":73,"seatTubeLength":null}`, string(recs[0].Input))
}
