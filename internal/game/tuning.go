package game

// All distances are world pixels, all times seconds, all rates per second.
const (
	// Player movement tiers.
	walkSpeed   = 180.0
	sprintSpeed = 340.0
	sneakSpeed  = 120.0
	dashSpeed   = 1200.0
	dashTime    = 0.15
	playerSize  = 35.0 // square body edge
	playerBody  = 17.5 // collision radius

	// Stamina.
	staminaMax          = 100.0
	staminaIdleRegen    = 20.0
	staminaWalkRegen    = 10.0
	staminaSneakRegen   = 10.0
	staminaSprintDrain  = 25.0
	staminaDashCost     = 35.0
	staminaAttackCost   = 15.0
	staminaParryCost    = 10.0
	exhaustionRecovered = 20.0 // exhaustion clears only at or above this

	// Movement pulses: interval between pulses, pulse radius, pulse duration.
	walkPulseInterval   = 0.7
	walkPulseRadius     = 180.0
	sprintPulseInterval = 0.3
	sprintPulseRadius   = 280.0
	stepPulseDuration   = 0.8
	dashPulseRadius     = 550.0
	dashPulseDuration   = 0.6

	// Pulse hit margins approximate each footprint with a circle.
	wallHitMargin     = 40.0
	sentinelHitMargin = 30.0
	playerHitMargin   = 20.0
	echoRadiusMul     = 0.4
	echoDurationMul   = 0.5

	// Walls.
	wallSize        = 80.0
	wallRevealDecay = 0.8

	// Sentinel speeds.
	sentinelPatrolSpeed = 100.0
	sentinelChaseSpeed  = 220.0
	sentinelLungeSpeed  = 900.0
	sentinelBody        = 15.0
	sentinelRevealDecay = 0.5

	// Sentinel radii.
	waypointArrival     = 10.0
	chaseArrival        = 20.0
	lungeTriggerRange   = 110.0
	contactKillRadius   = 40.0
	lungeContactRadius  = 45.0
	randomWaypointInset = 100.0

	// Sentinel timers.
	lungeWindupTime   = 0.4
	lungeTime         = 0.2
	searchTime        = 2.0
	fullStunTime      = 3.0
	rangedStunTime    = 1.5
	windupFlickerRate = 0.05 // seconds per flicker phase
	windupFlickerLow  = 0.35
	pingIntervalCalm  = 0.8
	pingIntervalChase = 0.4

	// Sentinel pulses.
	searchPulseRadius    = 300.0
	searchPulseDuration  = 0.5
	warningPulseRadius   = 140.0
	warningPulseDuration = 0.3

	// Player combat.
	attackTime         = 0.25
	parryTime          = 0.3
	stealthRange       = 60.0
	stealthForwardDot  = 0.5 // player must face the target at least this much
	backstabFacingDot  = 0.3 // sentinel facing the player at or above this blocks the kill
	coneHalfAngleDeg   = 30.0
	coneRange          = 260.0
	coneLife           = 0.25
	coneStunRange      = 90.0
	coneStunHalfDeg    = 25.0
	parryPulseRadius   = 600.0
	parryPulseDuration = 0.7

	// Impact freeze and session timing.
	freezeScale    = 0.1
	freezeDuration = 0.15
	restartDelay   = 1.5
)
