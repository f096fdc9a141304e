// Package progression applies post-battle experience, level and win/loss
// updates to player accounts. It runs exactly once per battle, triggered by
// the one-time FINISHED transition; a PVE machine side is never credited or
// debited.
package progression

import "github.com/Dutrix96/batalla/internal/game"

// Policy carries the XP awards. Losing still grants a consolation amount.
type Policy struct {
	WinnerXP int
	LoserXP  int
}

// DefaultPolicy matches the shipped game config.
var DefaultPolicy = Policy{WinnerXP: 20, LoserXP: 10}

// ApplyWin credits a battle win: XP award, win counter, level-ups.
func ApplyWin(u *game.User, pol Policy) {
	u.XP += pol.WinnerXP
	u.Wins++
	levelUp(u)
}

// ApplyLoss debits a battle loss: consolation XP, loss counter, level-ups.
func ApplyLoss(u *game.User, pol Policy) {
	u.XP += pol.LoserXP
	u.Losses++
	levelUp(u)
}

// levelUp cascades while the strictly increasing per-level threshold is met:
// reaching level N+1 costs N*100 XP.
func levelUp(u *game.User) {
	if u.Level < 1 {
		u.Level = 1
	}
	for u.XP >= u.Level*100 {
		u.XP -= u.Level * 100
		u.Level++
	}
}
