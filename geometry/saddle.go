package geometry

import (
	"math"

	"bikefit/domain"
)

// Saddle positions outside these bounds are treated as unset.
const (
	MinSaddleX = 100.0
	MaxSaddleX = 300.0
	MinSaddleY = 425.0
	MaxSaddleY = 900.0
)

func IsSaddlePositionValid(x, y float64) bool {
	return x >= MinSaddleX && x <= MaxSaddleX && y >= MinSaddleY && y <= MaxSaddleY
}

// ResolveSaddle derives the saddle measurements. Every output is the
// sentinel when the position is invalid; the seat-tube outputs additionally
// need sta, and the exposed seatpost needs stl.
func ResolveSaddle(pos domain.SaddlePosition, sta, stl domain.Number) domain.SaddleMeasurements {
	x, y := pos.SaddleX, pos.SaddleY
	if !IsSaddlePositionValid(x, y) {
		return domain.UnavailableSaddle()
	}

	m := domain.SaddleMeasurements{
		EffectiveSTA:    domain.Measure(RoundTo(AngleFromVertical(x, y), 1)),
		SetbackVsSTA:    domain.Unavailable(),
		BBToRail:        domain.Unavailable(),
		ExposedSeatpost: domain.Unavailable(),
		BBToSRC:         domain.Measure(Round(math.Sqrt(x*x + y*y))),
	}
	if !sta.Set || !ValidAngle(sta.Value) {
		return m
	}

	seatTubeX := y * math.Tan(Radians(90-sta.Value))
	m.SetbackVsSTA = domain.Measure(Round(seatTubeX - x))

	bbToRail := Round(y / math.Sin(Radians(180-sta.Value)))
	m.BBToRail = domain.Measure(bbToRail)

	// Measured from the rounded rail length, as displayed.
	if stl.Set {
		m.ExposedSeatpost = domain.Measure(Round(bbToRail - stl.Value))
	}
	return m
}
