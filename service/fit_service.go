package service

import (
	"bikefit/domain"
	"bikefit/geometry"

	"gonum.org/v1/gonum/spatial/r2"
)

// FitOptions tunes how missing inputs are treated.
type FitOptions struct {
	// STAFallback, when positive, stands in for a missing seat tube angle.
	STAFallback float64
}

// FitService runs the four fit calculations. It holds no state besides its
// options, so one instance serves any number of concurrent callers.
type FitService struct {
	opts FitOptions
}

func NewFitService(opts FitOptions) *FitService {
	return &FitService{opts: opts}
}

func (s *FitService) seatTubeAngle(sta domain.Number) domain.Number {
	if !sta.Set && s.opts.STAFallback > 0 {
		return domain.Num(s.opts.STAFallback)
	}
	return sta
}

func angleUsed(sta domain.Number) domain.Measurement {
	if !sta.Set || !geometry.ValidAngle(sta.Value) {
		return domain.Unavailable()
	}
	return domain.Measure(sta.Value)
}

// headTubeAngle returns the angle and whether it is usable.
func headTubeAngle(hta domain.Number) (float64, bool) {
	return hta.Value, hta.Set && geometry.ValidAngle(hta.Value)
}

// tenths rounds to 0.1 mm; differences elsewhere round to whole millimetres.
func tenths(v float64) domain.Measurement {
	return domain.Measure(geometry.RoundTo(v, 1))
}

// PositionSimulator resolves the handlebar and saddle for a full bike setup.
func (s *FitService) PositionSimulator(in PositionSimulatorInput) PositionSimulatorResult {
	stem := in.StemInput.Resolve()
	sta := s.seatTubeAngle(in.SeatTubeAngle)
	target := domain.HandlebarTarget{
		TargetHandlebarX:   in.TargetHandlebarX,
		TargetHandlebarY:   in.TargetHandlebarY,
		HandlebarReachUsed: in.HandlebarReachUsed,
	}

	res := PositionSimulatorResult{
		HandlebarX:        domain.Unavailable(),
		HandlebarY:        domain.Unavailable(),
		SeatTubeAngleUsed: angleUsed(sta),
		Stem:              stem,
	}

	hta, ok := headTubeAngle(in.HeadTubeAngle)
	if ok && in.Reach.Set && in.Stack.Set {
		frame := domain.FrameGeometry{
			Reach:          in.Reach.Value,
			Stack:          in.Stack.Value,
			HeadTubeAngle:  hta,
			SeatTubeAngle:  sta,
			SeatTubeLength: in.SeatTubeLength,
		}
		bar := geometry.Handlebar(frame, stem)
		res.HandlebarX = tenths(bar.X)
		res.HandlebarY = tenths(bar.Y)
		res.HandlebarAdjustment = geometry.AdjustHandlebar(bar, target)
	} else {
		res.HandlebarAdjustment = unavailableAdjustment(target)
	}

	saddle := domain.SaddlePosition{SaddleX: in.SaddleX.Float(), SaddleY: in.SaddleY.Float()}
	res.SaddleValid = geometry.IsSaddlePositionValid(saddle.SaddleX, saddle.SaddleY)
	res.SaddleMeasurements = geometry.ResolveSaddle(saddle, sta, in.SeatTubeLength)
	return res
}

// unavailableAdjustment keeps the shape of AdjustHandlebar when no handlebar
// position could be computed: requested diffs are present but "--".
func unavailableAdjustment(target domain.HandlebarTarget) domain.HandlebarAdjustment {
	adj := domain.HandlebarAdjustment{BarReachNeeded: domain.Unavailable()}
	if target.TargetHandlebarX.Set {
		d := domain.Unavailable()
		adj.HandlebarXDiff = &d
	}
	if target.TargetHandlebarY.Set {
		d := domain.Unavailable()
		adj.HandlebarYDiff = &d
	}
	return adj
}

// Seatpost resolves the saddle measurements alone.
func (s *FitService) Seatpost(in SeatpostInput) SeatpostResult {
	sta := s.seatTubeAngle(in.SeatTubeAngle)
	saddle := domain.SaddlePosition{SaddleX: in.SaddleX.Float(), SaddleY: in.SaddleY.Float()}
	return SeatpostResult{
		SaddleMeasurements: geometry.ResolveSaddle(saddle, sta, in.SeatTubeLength),
		SaddleValid:        geometry.IsSaddlePositionValid(saddle.SaddleX, saddle.SaddleY),
		SeatTubeAngleUsed:  angleUsed(sta),
	}
}

// StackReach finds the frame reach and stack that put the handlebar at the
// requested point with the given stem.
func (s *FitService) StackReach(in StackReachInput) StackReachResult {
	stem := in.StemInput.Resolve()
	res := StackReachResult{
		FrameReach:     domain.Unavailable(),
		FrameStack:     domain.Unavailable(),
		EffectiveReach: domain.Unavailable(),
		EffectiveStack: domain.Unavailable(),
		Stem:           stem,
	}
	hta, ok := headTubeAngle(in.HeadTubeAngle)
	if !ok {
		return res
	}

	v := geometry.StemVector(hta, stem)
	res.EffectiveReach = tenths(v.X)
	res.EffectiveStack = tenths(v.Y)
	if in.HandlebarX.Set && in.HandlebarY.Set {
		frame := geometry.FrameFor(r2.Vec{X: in.HandlebarX.Value, Y: in.HandlebarY.Value}, hta, stem)
		res.FrameReach = tenths(frame.X)
		res.FrameStack = tenths(frame.Y)
	}
	return res
}

// Stem resolves a stem setup and, given a reference stem, how far it moves
// the handlebar compared to that reference.
func (s *FitService) Stem(in StemCalcInput) StemCalcResult {
	stem := in.StemInput.Resolve()
	res := StemCalcResult{
		EffectiveReach: domain.Unavailable(),
		EffectiveStack: domain.Unavailable(),
		HandlebarX:     domain.Unavailable(),
		HandlebarY:     domain.Unavailable(),
		Stem:           stem,
	}
	var ref *domain.StemConfig
	if in.Reference != nil {
		r := in.Reference.Resolve()
		ref = &r
		res.Reference = ref
	}

	hta, ok := headTubeAngle(in.HeadTubeAngle)
	if !ok {
		if ref != nil {
			reach, stack := domain.Unavailable(), domain.Unavailable()
			res.ReachChange, res.StackChange = &reach, &stack
		}
		return res
	}

	v := geometry.StemVector(hta, stem)
	res.EffectiveReach = tenths(v.X)
	res.EffectiveStack = tenths(v.Y)
	if in.Reach.Set && in.Stack.Set {
		bar := r2.Add(r2.Vec{X: in.Reach.Value, Y: in.Stack.Value}, v)
		res.HandlebarX = tenths(bar.X)
		res.HandlebarY = tenths(bar.Y)
	}
	if ref != nil {
		d := geometry.CompareStems(hta, stem, *ref)
		reach := domain.Measure(geometry.Round(d.X))
		stack := domain.Measure(geometry.Round(d.Y))
		res.ReachChange, res.StackChange = &reach, &stack
	}
	return res
}
