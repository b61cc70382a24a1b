package service

// Calculation kinds accepted by CalculatorService.Calculate.
const (
	KindPositionSimulator = "position-simulator"
	KindSeatpost          = "seatpost"
	KindStackReach        = "stack-reach"
	KindStem              = "stem"
)

const (
	// MaxPayloadBytes bounds a calculation or search request body.
	MaxPayloadBytes = 64 << 10
	// MaxRecentCalculations bounds a history listing.
	MaxRecentCalculations = 200
	// DefaultRecentCalculations is used when a history listing gives no limit.
	DefaultRecentCalculations = 20

	cacheKeyPrefix = "calc"
)
