package game

import "math"

// Input is one step's worth of already-debounced player intent.
type Input struct {
	Move   Vec2 // movement axes; any non-zero vector means "moving"
	Sprint bool // held
	Sneak  bool // held
	Dash   bool // pressed this step
	Attack bool // pressed this step
	Parry  bool // pressed this step
	Aim    Vec2 // world-space aim point
}

// MoveTier is the movement mode chosen for a step.
type MoveTier int

const (
	TierIdle MoveTier = iota
	TierWalk
	TierSneak
	TierSprint
	TierDash
)

func (t MoveTier) String() string {
	switch t {
	case TierIdle:
		return "idle"
	case TierWalk:
		return "walk"
	case TierSneak:
		return "sneak"
	case TierSprint:
		return "sprint"
	case TierDash:
		return "dash"
	default:
		return "unknown"
	}
}

// tierParams fixes speed and movement-pulse cadence per tier.
type tierParams struct {
	speed    float64
	interval float64 // seconds between movement pulses
	radius   float64 // pulse size
	canPulse bool
}

var tierTable = map[MoveTier]tierParams{
	TierIdle:   {speed: 0, interval: walkPulseInterval, radius: walkPulseRadius, canPulse: true},
	TierWalk:   {speed: walkSpeed, interval: walkPulseInterval, radius: walkPulseRadius, canPulse: true},
	TierSneak:  {speed: sneakSpeed, interval: walkPulseInterval, radius: walkPulseRadius, canPulse: false},
	TierSprint: {speed: sprintSpeed, interval: sprintPulseInterval, radius: sprintPulseRadius, canPulse: true},
	TierDash:   {speed: dashSpeed, interval: walkPulseInterval, radius: walkPulseRadius, canPulse: false},
}

// CombatState is the player's exclusive combat mode.
type CombatState int

const (
	CombatIdle CombatState = iota
	CombatAttack
	CombatParry
)

func (c CombatState) String() string {
	switch c {
	case CombatIdle:
		return "idle"
	case CombatAttack:
		return "attack"
	case CombatParry:
		return "parry"
	default:
		return "unknown"
	}
}

// Player is the controllable entity and its resource model.
type Player struct {
	handle Handle
	pos    Vec2
	facing float64

	stamina   float64
	exhausted bool

	dashing   bool
	dashTimer float64
	stepTimer float64
	tier      MoveTier

	dead bool
	won  bool

	combat       CombatState
	combatTimer  float64
	parrySuccess bool
	stealthSwing bool // current attack is the sneak variant
	swingPending bool // attack started this step, not yet resolved
}

func newPlayer(h Handle, pos Vec2) *Player {
	return &Player{
		handle:    h,
		pos:       pos,
		stamina:   staminaMax,
		stepTimer: walkPulseInterval,
	}
}

func (p *Player) Handle() Handle { return p.handle }
func (p *Player) Kind() Kind { return KindPlayer }
func (p *Player) Pos() Vec2 { return p.pos }

func (p *Player) Facing() float64 { return p.facing }
func (p *Player) Stamina() float64 { return p.stamina }
func (p *Player) Exhausted() bool { return p.exhausted }
func (p *Player) Dashing() bool { return p.dashing }
func (p *Player) Dead() bool { return p.dead }
func (p *Player) Won() bool { return p.won }
func (p *Player) Tier() MoveTier { return p.tier }
func (p *Player) Combat() CombatState { return p.combat }
func (p *Player) StepTimer() float64 { return p.stepTimer }

// ParrySuccess reports whether the current parry window already turned a lunge.
func (p *Player) ParrySuccess() bool { return p.parrySuccess }

// alive is true for a player that can still be hit.
func (p *Player) alive() bool { return !p.dead }

func (p *Player) updateExhaustion() {
	if p.stamina <= 0 {
		p.exhausted = true
	}
	if p.exhausted && p.stamina >= exhaustionRecovered {
		p.exhausted = false
	}
}

// spend deducts cost if it is affordable. It never drives stamina negative.
func (p *Player) spend(cost float64) bool {
	if p.stamina < cost {
		return false
	}
	p.stamina -= cost
	return true
}

// update runs the resource model, movement and combat requests for one step.
func (p *Player) update(w *World, dt float64, in Input) {
	if p.dead {
		return
	}
	p.updateExhaustion()

	moving := !in.Move.IsZero()
	switch {
	case p.dashing:
		p.dashTimer -= dt
		if p.dashTimer <= 0 {
			p.dashTimer = 0
			p.dashing = false
		}
		p.tier = TierDash

	case in.Dash && moving && p.spend(staminaDashCost):
		p.dashing = true
		p.dashTimer = dashTime
		p.tier = TierDash
		w.emitPulse(p.pos, dashPulseRadius, dashPulseDuration, false, p.handle, PulsePlayer)
		w.cue(CueDash)

	case in.Sprint && moving && p.stamina > 0 && !p.exhausted:
		p.tier = TierSprint
		p.stamina = math.Max(0, p.stamina-staminaSprintDrain*dt)

	case in.Sneak:
		p.tier = TierSneak
		p.stamina += staminaSneakRegen * dt

	case moving:
		p.tier = TierWalk
		p.stamina += staminaWalkRegen * dt

	default:
		p.tier = TierIdle
		p.stamina += staminaIdleRegen * dt
	}
	p.stamina = clamp(p.stamina, 0, staminaMax)

	tp := tierTable[p.tier]
	if moving {
		next := p.pos.Add(in.Move.Unit().Scale(tp.speed * dt))
		next = resolveWalls(w.index, next, playerBody)
		p.pos = w.clampToBounds(next)

		if !p.dashing && tp.canPulse {
			p.stepTimer += dt
			if p.stepTimer >= tp.interval {
				w.emitPulse(p.pos, tp.radius, stepPulseDuration, false, p.handle, PulsePlayer)
				p.stepTimer = 0
			}
		}
	} else {
		// Standing still: the next step taken pulses immediately.
		p.stepTimer = tp.interval
	}

	if !in.Aim.IsZero() && in.Aim != p.pos {
		p.facing = p.pos.AngleTo(in.Aim)
	}

	p.tickCombat(dt)
	switch {
	case in.Attack:
		if p.beginCombat(CombatAttack, staminaAttackCost, attackTime) {
			p.stealthSwing = in.Sneak
			p.swingPending = true
			w.cue(CueAttack)
		}
	case in.Parry:
		if p.beginCombat(CombatParry, staminaParryCost, parryTime) {
			p.parrySuccess = false
			w.cue(CueParry)
		}
	}

	p.updateExhaustion()
}

func (p *Player) tickCombat(dt float64) {
	if p.combat == CombatIdle {
		return
	}
	p.combatTimer -= dt
	if p.combatTimer <= 0 {
		p.combatTimer = 0
		p.combat = CombatIdle
		p.stealthSwing = false
	}
}

// beginCombat enters an attack or parry from idle, paying its cost up front.
func (p *Player) beginCombat(state CombatState, cost, duration float64) bool {
	if p.combat != CombatIdle || p.dashing || p.exhausted {
		return false
	}
	if !p.spend(cost) {
		return false
	}
	p.combat = state
	p.combatTimer = duration
	return true
}

// kill marks the player dead. It reports whether this call was the one that did it.
func (p *Player) kill() bool {
	if p.dead {
		return false
	}
	p.dead = true
	p.combat = CombatIdle
	p.combatTimer = 0
	p.dashing = false
	p.swingPending = false
	return true
}
