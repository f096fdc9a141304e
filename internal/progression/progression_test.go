package progression

import (
	"testing"

	"github.com/Dutrix96/batalla/internal/game"
)

func TestApplyWin_SingleLevelUp(t *testing.T) {
	// level=1, xp=90: a win (+20) crosses one threshold, not two.
	u := &game.User{Level: 1, XP: 90}
	ApplyWin(u, DefaultPolicy)

	if u.Level != 2 || u.XP != 10 {
		t.Fatalf("got level=%d xp=%d, want level=2 xp=10", u.Level, u.XP)
	}
	if u.Wins != 1 {
		t.Fatalf("wins = %d, want 1", u.Wins)
	}
}

func TestApplyWin_NoLevelUp(t *testing.T) {
	u := &game.User{Level: 3, XP: 50}
	ApplyWin(u, DefaultPolicy)
	if u.Level != 3 || u.XP != 70 {
		t.Fatalf("got level=%d xp=%d, want level=3 xp=70", u.Level, u.XP)
	}
}

func TestApplyLoss_ConsolationXP(t *testing.T) {
	u := &game.User{Level: 1, XP: 95}
	ApplyLoss(u, DefaultPolicy)
	if u.Level != 2 || u.XP != 5 {
		t.Fatalf("got level=%d xp=%d, want level=2 xp=5", u.Level, u.XP)
	}
	if u.Losses != 1 || u.Wins != 0 {
		t.Fatalf("losses=%d wins=%d, want 1/0", u.Losses, u.Wins)
	}
}

func TestLevelUp_CascadesAcrossLevels(t *testing.T) {
	// Large stored XP can cascade multiple levels from one battle:
	// 310 xp at level 1 -> -100 (lvl2) -> -200 (lvl3) -> 10 left (< 300).
	u := &game.User{Level: 1, XP: 290}
	ApplyWin(u, DefaultPolicy)
	if u.Level != 3 || u.XP != 10 {
		t.Fatalf("got level=%d xp=%d, want level=3 xp=10", u.Level, u.XP)
	}
}

func TestLevelUp_ZeroValueLevelTreatedAsOne(t *testing.T) {
	u := &game.User{XP: 100}
	ApplyWin(u, Policy{WinnerXP: 0, LoserXP: 0})
	if u.Level != 2 || u.XP != 0 {
		t.Fatalf("got level=%d xp=%d, want level=2 xp=0", u.Level, u.XP)
	}
}
