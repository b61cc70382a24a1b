package geometry

import (
	"bikefit/domain"

	"gonum.org/v1/gonum/spatial/r2"
)

// StemCenter returns the center of the stem's steerer clamp relative to the
// head-tube top: headset, spacers and half the stem height up the steerer.
func StemCenter(headTubeAngle float64, stem domain.StemConfig) r2.Vec {
	offset := stem.HeadsetHeight + stem.SpacersHeight + stem.StemHeight/2
	return Project(r2.Vec{}, offset, 180-headTubeAngle)
}

// StemVector returns the handlebar clamp center relative to the head-tube
// top. The stem body leaves the steerer perpendicular to the head tube,
// tilted by StemAngle.
func StemVector(headTubeAngle float64, stem domain.StemConfig) r2.Vec {
	return Project(StemCenter(headTubeAngle, stem), stem.StemLength, 90-headTubeAngle+stem.StemAngle)
}

// CompareStems returns how far stem moves the handlebar relative to
// reference on the same head tube. Positive X is longer, positive Y higher.
func CompareStems(headTubeAngle float64, stem, reference domain.StemConfig) r2.Vec {
	return r2.Sub(StemVector(headTubeAngle, stem), StemVector(headTubeAngle, reference))
}
