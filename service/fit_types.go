package service

import "bikefit/domain"

type PositionSimulatorInput struct {
	Reach          domain.Number `json:"reach"`
	Stack          domain.Number `json:"stack"`
	HeadTubeAngle  domain.Number `json:"headTubeAngle"`
	SeatTubeAngle  domain.Number `json:"seatTubeAngle"`
	SeatTubeLength domain.Number `json:"seatTubeLength"`
	domain.StemInput
	SaddleX            domain.Number `json:"saddleX"`
	SaddleY            domain.Number `json:"saddleY"`
	TargetHandlebarX   domain.Number `json:"targetHandlebarX"`
	TargetHandlebarY   domain.Number `json:"targetHandlebarY"`
	HandlebarReachUsed domain.Number `json:"handlebarReachUsed"`
}

type PositionSimulatorResult struct {
	HandlebarX domain.Measurement `json:"handlebarX"`
	HandlebarY domain.Measurement `json:"handlebarY"`
	domain.HandlebarAdjustment
	domain.SaddleMeasurements
	SaddleValid       bool               `json:"saddleValid"`
	SeatTubeAngleUsed domain.Measurement `json:"seatTubeAngleUsed"`
	Stem              domain.StemConfig  `json:"stem"`
}

type SeatpostInput struct {
	SaddleX        domain.Number `json:"saddleX"`
	SaddleY        domain.Number `json:"saddleY"`
	SeatTubeAngle  domain.Number `json:"seatTubeAngle"`
	SeatTubeLength domain.Number `json:"seatTubeLength"`
}

type SeatpostResult struct {
	domain.SaddleMeasurements
	SaddleValid       bool               `json:"saddleValid"`
	SeatTubeAngleUsed domain.Measurement `json:"seatTubeAngleUsed"`
}

type StackReachInput struct {
	HandlebarX    domain.Number `json:"handlebarX"`
	HandlebarY    domain.Number `json:"handlebarY"`
	HeadTubeAngle domain.Number `json:"headTubeAngle"`
	domain.StemInput
}

type StackReachResult struct {
	FrameReach     domain.Measurement `json:"frameReach"`
	FrameStack     domain.Measurement `json:"frameStack"`
	EffectiveReach domain.Measurement `json:"effectiveReach"`
	EffectiveStack domain.Measurement `json:"effectiveStack"`
	Stem           domain.StemConfig  `json:"stem"`
}

type StemCalcInput struct {
	HeadTubeAngle domain.Number `json:"headTubeAngle"`
	domain.StemInput
	Reach     domain.Number     `json:"reach"`
	Stack     domain.Number     `json:"stack"`
	Reference *domain.StemInput `json:"reference,omitempty"`
}

type StemCalcResult struct {
	EffectiveReach domain.Measurement  `json:"effectiveReach"`
	EffectiveStack domain.Measurement  `json:"effectiveStack"`
	HandlebarX     domain.Measurement  `json:"handlebarX"`
	HandlebarY     domain.Measurement  `json:"handlebarY"`
	ReachChange    *domain.Measurement `json:"reachChange,omitempty"`
	StackChange    *domain.Measurement `json:"stackChange,omitempty"`
	Stem           domain.StemConfig   `json:"stem"`
	Reference      *domain.StemConfig  `json:"reference,omitempty"`
}
