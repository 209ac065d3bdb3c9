package seeder

// Hidden skill bounds for generated players.
const (
	minSkill   = 0.2
	skillRange = 0.8
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
)

// Reporting constants.
const (
	percentageMultiplier = 100
	podiumSize           = 10
	concordanceWarnBelow = 0.5
)
