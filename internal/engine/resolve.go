// Package engine contains the pure combat arithmetic: damage, HP transitions,
// turn advance and the machine side's automatic turn in PVE. It mutates the
// battle aggregate in memory only; callers are responsible for preconditions
// and persistence.
package engine

import (
	"time"

	"github.com/Dutrix96/batalla/internal/game"
)

// Policy carries the gameplay tunables the resolver depends on.
type Policy struct {
	// MachineSpecialThresholdPercent is the HP percentage at or below which
	// the PVE machine side spends its one special.
	MachineSpecialThresholdPercent int
}

// Damage computes the damage of a single attack. The special doubles the
// attacker's base attack; there are no other damage sources.
func Damage(attack int, special bool) int {
	if special {
		return attack * 2
	}
	return attack
}

// applyAttack resolves one attack from attacker to defender: HP clamp at 0,
// special consumption, winner determination and turn flip. All of it happens
// on the in-memory aggregate as one step.
func applyAttack(b *game.Battle, attacker, defender *game.Participant, special bool, now time.Time) game.AttackEvent {
	damage := Damage(attacker.Attack, special)
	hp := defender.HP - damage
	if hp < 0 {
		hp = 0
	}
	defender.HP = hp
	if special {
		attacker.SpecialUsed = true
	}

	if hp == 0 {
		winner := attacker.Side
		b.Status = game.StatusFinished
		b.WinnerSide = &winner
		b.WinnerUserID = attacker.UserID
	} else {
		b.CurrentTurnSide = defender.Side
	}

	return game.AttackEvent{
		BattleID:     b.ID,
		AttackerSide: attacker.Side,
		DefenderSide: defender.Side,
		Damage:       damage,
		DefenderHP:   hp,
		Special:      special,
		Timestamp:    now,
	}
}

// MachineWantsSpecial implements the machine side's one-shot policy: spend
// the special the first time its own HP sits at or below the configured
// percentage of max HP.
func MachineWantsSpecial(m *game.Participant, thresholdPercent int) bool {
	if m.SpecialUsed {
		return false
	}
	return m.HP*100 <= m.MaxHP*thresholdPercent
}

// ResolveTurn resolves the attacking side's turn on an ACTIVE battle. For PVP
// it produces exactly one event. For PVE the machine's answer executes inline
// when the player's attack did not finish the battle, so the slice carries the
// player event followed by the machine event, in chronological order.
//
// Callers must have validated that the battle is ACTIVE, that side holds the
// turn, and that special is not being reused.
func ResolveTurn(b *game.Battle, side game.BattleSide, special bool, pol Policy, now time.Time) []game.AttackEvent {
	attacker := b.ParticipantBySide(side)
	defender := b.ParticipantBySide(side.Opposite())

	events := make([]game.AttackEvent, 0, 2)
	events = append(events, applyAttack(b, attacker, defender, special, now))
	if b.Status == game.StatusFinished {
		return events
	}

	if b.Mode == game.ModePVE && defender.UserID == nil {
		machineSpecial := MachineWantsSpecial(defender, pol.MachineSpecialThresholdPercent)
		// the machine's attack flips the turn back to the human unless it
		// finished the battle
		events = append(events, applyAttack(b, defender, attacker, machineSpecial, now))
	}
	return events
}
