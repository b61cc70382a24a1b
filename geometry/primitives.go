// Package geometry resolves bike-fit contact points from frame and stem
// measurements. The bottom bracket is the origin, +X points forward, +Y
// points up, and every angle is in degrees from horizontal, counterclockwise
// positive. All functions are pure.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Project returns the point length away from origin along angleDeg.
func Project(origin r2.Vec, length, angleDeg float64) r2.Vec {
	rad := Radians(angleDeg)
	return r2.Add(origin, r2.Vec{X: length * math.Cos(rad), Y: length * math.Sin(rad)})
}

// AngleFromVertical returns 90 - atan2(x, y) in degrees, the angle from
// horizontal of the line from the origin to a point above and behind it.
// It is NaN for y == 0.
func AngleFromVertical(x, y float64) float64 {
	if y == 0 {
		return math.NaN()
	}
	return 90 - Degrees(math.Atan2(x, y))
}

// ValidAngle reports whether deg is a usable tube angle.
func ValidAngle(deg float64) bool {
	return deg > 0 && deg < 180
}

// Round rounds half up, the way the fit tools always have: -2.5 becomes -2.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundTo rounds half up to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}
