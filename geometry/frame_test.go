package geometry

import (
	"testing"

	"bikefit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame() domain.FrameGeometry {
	return domain.FrameGeometry{Reach: 380, Stack: 560, HeadTubeAngle: 73}
}

func TestHandlebar_Golden(t *testing.T) {
	bar := Handlebar(testFrame(), domain.DefaultStemConfig())
	assert.InDelta(t, 463.5441331086296, bar.X, 1e-9)
	assert.InDelta(t, 626.8961373358063, bar.Y, 1e-9)
}

func TestHandlebar_RoundTrip(t *testing.T) {
	frame := testFrame()
	stem := domain.DefaultStemConfig()

	first := Handlebar(frame, stem)
	second := Handlebar(frame, stem)
	assert.Equal(t, first, second)

	back := FrameFor(first, frame.HeadTubeAngle, stem)
	assert.InDelta(t, frame.Reach, back.X, 1e-9)
	assert.InDelta(t, frame.Stack, back.Y, 1e-9)
}

func TestBarReachNeeded(t *testing.T) {
	bar := Handlebar(testFrame(), domain.DefaultStemConfig())

	t.Run("target and reach used", func(t *testing.T) {
		got := BarReachNeeded(bar.X, domain.HandlebarTarget{
			TargetHandlebarX:   domain.Num(420),
			HandlebarReachUsed: domain.Num(80),
		})
		require.True(t, got.Valid)
		assert.Equal(t, 36.0, got.Value)
	})

	t.Run("missing reach used", func(t *testing.T) {
		got := BarReachNeeded(bar.X, domain.HandlebarTarget{TargetHandlebarX: domain.Num(420)})
		assert.False(t, got.Valid)
	})

	t.Run("missing target", func(t *testing.T) {
		got := BarReachNeeded(bar.X, domain.HandlebarTarget{HandlebarReachUsed: domain.Num(80)})
		assert.False(t, got.Valid)
	})
}

func TestAdjustHandlebar(t *testing.T) {
	bar := Handlebar(testFrame(), domain.DefaultStemConfig())

	adj := AdjustHandlebar(bar, domain.HandlebarTarget{
		TargetHandlebarX: domain.Num(460),
		TargetHandlebarY: domain.Num(630),
	})
	require.NotNil(t, adj.HandlebarXDiff)
	require.NotNil(t, adj.HandlebarYDiff)
	assert.Equal(t, 4.0, adj.HandlebarXDiff.Value)
	assert.Equal(t, -3.0, adj.HandlebarYDiff.Value)
	assert.False(t, adj.BarReachNeeded.Valid)

	none := AdjustHandlebar(bar, domain.HandlebarTarget{})
	assert.Nil(t, none.HandlebarXDiff)
	assert.Nil(t, none.HandlebarYDiff)
}
