package nav

// Config collects the tunables for graph construction, search, steering,
// and path caching. Graph-affecting fields are only read during Build;
// cache and steering fields are read every tick and safe to swap between
// ticks.
type Config struct {
	// Graph construction.
	NodeSpacing            float64 // distance between nodes along an edge
	EdgeDirectionThreshold float64 // min dot(edge dir, +X) for a walkable edge
	DedupeDistanceSq       float64 // squared merge distance for coincident nodes
	TrajectorySteps        int     // samples per jump/drop arc
	MaxDropOffset          float64 // max horizontal offset for a drop candidate
	MaxDropHeight          float64 // max fall height for a drop candidate, 0 = uncapped
	DropEffortMultiplier   float64 // scales drop effort below jump effort
	CellSize               float64 // spatial index cell size, ~2.5x node spacing

	// Shared physics model.
	Gravity   float64 // downward acceleration magnitude
	JumpForce float64 // max launch speed an agent can produce

	// Search.
	EffortWeight            float64 // weight of connection effort in g-cost
	VerticalHeuristicWeight float64 // climb penalty in the heuristic

	// Steering.
	MaxSpeed          float64 // ground speed the steer direction is scaled by
	VelocityEpsilonSq float64 // squared speed below which the agent counts as stopped

	// Path cache, all squared distances.
	GoalChangeThresholdSq    float64
	PathDeviationThresholdSq float64
	NodeReachedThresholdSq   float64
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		NodeSpacing:            20,
		EdgeDirectionThreshold: -0.1,
		DedupeDistanceSq:       1,
		TrajectorySteps:        10,
		MaxDropOffset:          30, // 1.5x node spacing
		MaxDropHeight:          0,
		DropEffortMultiplier:   0.05,
		CellSize:               50, // ~2.5x node spacing

		Gravity:   0.5,
		JumpForce: 8,

		EffortWeight:            1,
		VerticalHeuristicWeight: 1.5,

		MaxSpeed:          3,
		VelocityEpsilonSq: 0.1,

		GoalChangeThresholdSq:    25,  // 5 units
		PathDeviationThresholdSq: 100, // 10 units
		NodeReachedThresholdSq:   64,  // 8 units, the reference agent radius
	}
}
