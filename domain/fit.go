package domain

import "time"

// Stem defaults used whenever a stem field is absent, blank or unparseable.
const (
	DefaultStemHeight    = 40.0
	DefaultStemLength    = 100.0
	DefaultStemAngle     = -6.0
	DefaultSpacersHeight = 20.0
	DefaultHeadsetHeight = 10.0
)

// FrameGeometry is measured from the bottom bracket. Angles are degrees from
// horizontal.
type FrameGeometry struct {
	Reach          float64
	Stack          float64
	HeadTubeAngle  float64
	SeatTubeAngle  Number
	SeatTubeLength Number
}

// StemConfig describes everything stacked on top of the head tube. StemAngle
// is signed, negative points down.
type StemConfig struct {
	StemHeight    float64 `json:"stemHeight"`
	StemLength    float64 `json:"stemLength"`
	StemAngle     float64 `json:"stemAngle"`
	SpacersHeight float64 `json:"spacersHeight"`
	HeadsetHeight float64 `json:"headsetHeight"`
}

func DefaultStemConfig() StemConfig {
	return StemConfig{
		StemHeight:    DefaultStemHeight,
		StemLength:    DefaultStemLength,
		StemAngle:     DefaultStemAngle,
		SpacersHeight: DefaultSpacersHeight,
		HeadsetHeight: DefaultHeadsetHeight,
	}
}

// StemInput is the form representation of a StemConfig.
type StemInput struct {
	StemHeight    Number `json:"stemHeight"`
	StemLength    Number `json:"stemLength"`
	StemAngle     Number `json:"stemAngle"`
	SpacersHeight Number `json:"spacersHeight"`
	HeadsetHeight Number `json:"headsetHeight"`
}

// Resolve applies the stem defaults to every unset field. An explicit zero
// is kept.
func (in StemInput) Resolve() StemConfig {
	return StemConfig{
		StemHeight:    in.StemHeight.Or(DefaultStemHeight),
		StemLength:    in.StemLength.Or(DefaultStemLength),
		StemAngle:     in.StemAngle.Or(DefaultStemAngle),
		SpacersHeight: in.SpacersHeight.Or(DefaultSpacersHeight),
		HeadsetHeight: in.HeadsetHeight.Or(DefaultHeadsetHeight),
	}
}

// SaddlePosition is the saddle rail center relative to the bottom bracket.
type SaddlePosition struct {
	SaddleX float64
	SaddleY float64
}

// HandlebarTarget is the handlebar position a rider wants to reproduce and
// the reach of the handlebar they used to get there.
type HandlebarTarget struct {
	TargetHandlebarX   Number
	TargetHandlebarY   Number
	HandlebarReachUsed Number
}

type SaddleMeasurements struct {
	EffectiveSTA    Measurement `json:"effectiveSTA"`
	SetbackVsSTA    Measurement `json:"setbackVsSTA"`
	BBToRail        Measurement `json:"bbToRail"`
	ExposedSeatpost Measurement `json:"exposedSeatpost"`
	BBToSRC         Measurement `json:"bbToSRC"`
}

// UnavailableSaddle is returned for invalid saddle positions.
func UnavailableSaddle() SaddleMeasurements {
	return SaddleMeasurements{}
}

// HandlebarAdjustment compares a computed handlebar position with a target.
// The diffs are nil when the matching target coordinate is absent.
type HandlebarAdjustment struct {
	BarReachNeeded Measurement  `json:"barReachNeeded"`
	HandlebarXDiff *Measurement `json:"handlebarXDiff,omitempty"`
	HandlebarYDiff *Measurement `json:"handlebarYDiff,omitempty"`
}

// CalculationRecord is one saved calculation: the kind plus its input and
// result as JSON objects.
type CalculationRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"calculationType"`
	Input     []byte    `json:"-"`
	Result    []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
