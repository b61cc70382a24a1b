package geometry

import (
	"bikefit/domain"

	"gonum.org/v1/gonum/spatial/r2"
)

// HeadTubeTop is the (reach, stack) point of a frame.
func HeadTubeTop(frame domain.FrameGeometry) r2.Vec {
	return r2.Vec{X: frame.Reach, Y: frame.Stack}
}

// Handlebar returns the handlebar clamp center relative to the bottom bracket.
func Handlebar(frame domain.FrameGeometry, stem domain.StemConfig) r2.Vec {
	return r2.Add(HeadTubeTop(frame), StemVector(frame.HeadTubeAngle, stem))
}

// FrameFor returns the reach and stack a frame needs so that the given stem
// puts the handlebar at handlebar.
func FrameFor(handlebar r2.Vec, headTubeAngle float64, stem domain.StemConfig) r2.Vec {
	return r2.Sub(handlebar, StemVector(headTubeAngle, stem))
}

// BarReachNeeded returns the handlebar reach that moves the computed
// handlebar X onto the target X.
func BarReachNeeded(handlebarX float64, target domain.HandlebarTarget) domain.Measurement {
	if !target.TargetHandlebarX.Set || !target.HandlebarReachUsed.Set {
		return domain.Unavailable()
	}
	return domain.Measure(Round(target.HandlebarReachUsed.Value + (target.TargetHandlebarX.Value - handlebarX)))
}

// AdjustHandlebar compares a computed handlebar position with a target.
// Positive X diff means longer than the target, positive Y diff higher.
func AdjustHandlebar(handlebar r2.Vec, target domain.HandlebarTarget) domain.HandlebarAdjustment {
	adj := domain.HandlebarAdjustment{
		BarReachNeeded: BarReachNeeded(handlebar.X, target),
	}
	if target.TargetHandlebarX.Set {
		d := domain.Measure(Round(handlebar.X - target.TargetHandlebarX.Value))
		adj.HandlebarXDiff = &d
	}
	if target.TargetHandlebarY.Set {
		d := domain.Measure(Round(handlebar.Y - target.TargetHandlebarY.Value))
		adj.HandlebarYDiff = &d
	}
	return adj
}
