package character

const (
	// CollisionOffset is the gap kept between the actor and the surfaces it touches.
	CollisionOffset float32 = 0.01
	// GroundProbeLength is the ground probe used when the actor is not snapping to the ground.
	GroundProbeLength = CollisionOffset * 3
	// GroundedHitDistanceTolerance is the band, past the closest ground probe hit, in which other
	// hits are considered for grounding.
	GroundedHitDistanceTolerance = CollisionOffset * 1.5
	// DotProductSimilarityEpsilon is the tolerance of direction comparisons.
	DotProductSimilarityEpsilon float32 = 0.001
	// MinDotRatioForVerticalDecollision is the minimum dot product between a grounded overlap
	// normal and up for decollision to happen along up.
	MinDotRatioForVerticalDecollision float32 = 0.1
	// DefaultReverseProjectionMaxLengthRatio caps a redirected decollision at this multiple of
	// the overlap.
	DefaultReverseProjectionMaxLengthRatio float32 = 10
	// StepGroundingDetectionHorizontalOffset is the horizontal offset of step grounding probes.
	StepGroundingDetectionHorizontalOffset float32 = 0.01
	// MaxStepUpDirectionDot is the largest dot product between the movement direction and up for
	// which a step up is attempted.
	MaxStepUpDirectionDot float32 = 0.7071
	// MinStepForwardDistance is the shortest distance travelled over a step.
	MinStepForwardDistance = CollisionOffset * 3
	// SecondaryNoGroundingCheckDistance is how far past the forecast point the slope forecast
	// looks for ground before deciding there is none.
	SecondaryNoGroundingCheckDistance float32 = 0.25
)
