package game

import (
	"time"

	"gorm.io/gorm"
)

// BattleMode distinguishes a scripted-opponent fight from a player-vs-player one.
type BattleMode string

const (
	ModePVE BattleMode = "PVE"
	ModePVP BattleMode = "PVP"
)

// BattleStatus is the battle lifecycle state. LOBBY is only reachable for PVP
// battles created before both characters are committed.
type BattleStatus string

const (
	StatusLobby    BattleStatus = "LOBBY"
	StatusActive   BattleStatus = "ACTIVE"
	StatusFinished BattleStatus = "FINISHED"
)

// BattleSide identifies one of the two combat slots, independent of which
// user occupies it.
type BattleSide string

const (
	SideInitiator BattleSide = "INITIATOR"
	SideOpponent  BattleSide = "OPPONENT"
)

// Opposite returns the other side.
func (s BattleSide) Opposite() BattleSide {
	if s == SideInitiator {
		return SideOpponent
	}
	return SideInitiator
}

// Role controls access to the character template admin surface.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Character is a catalog template. The battle engine never mutates templates;
// participant stats are copied from the template at selection time so later
// template edits cannot affect an in-progress battle.
type Character struct {
	gorm.Model
	Name          string `json:"name" gorm:"uniqueIndex;size:64"`
	MaxHP         int    `json:"max_hp" gorm:"column:max_hp"`
	Attack        int    `json:"attack"`
	RequiredLevel int    `json:"required_level"`
}

func (Character) TableName() string { return "characters" }

// User stores unique account identity and aggregate progression stats.
type User struct {
	gorm.Model
	Email  string `json:"email" gorm:"uniqueIndex;size:128"`
	Name   string `json:"name" gorm:"size:64"`
	Role   Role   `json:"role" gorm:"size:16;default:USER"`
	Level  int    `json:"level" gorm:"default:1"`
	XP     int    `json:"xp" gorm:"column:xp"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

func (User) TableName() string { return "users" }

// Participant is the frozen-per-battle stat snapshot plus live HP and
// special-use state for one side. (BattleID, Side) is unique: at most one
// record per side per battle.
type Participant struct {
	gorm.Model
	BattleID    uint       `json:"-" gorm:"uniqueIndex:idx_battle_side"`
	Side        BattleSide `json:"side" gorm:"size:16;uniqueIndex:idx_battle_side"`
	UserID      *uint      `json:"user_id"` // nil for the machine side in PVE
	CharacterID uint       `json:"character_id"`
	Character   Character  `json:"character"`
	Attack      int        `json:"attack"`
	MaxHP       int        `json:"max_hp" gorm:"column:max_hp"`
	HP          int        `json:"hp" gorm:"column:hp"`
	SpecialUsed bool       `json:"special_used"`
}

func (Participant) TableName() string { return "battle_participants" }

// Battle is the aggregate root. Participants are mutated only through the
// battle service entry points; a FINISHED battle is read-only.
type Battle struct {
	gorm.Model
	Mode            BattleMode    `json:"mode" gorm:"size:8"`
	Status          BattleStatus  `json:"status" gorm:"size:16"`
	InitiatorUserID uint          `json:"initiator_user_id"`
	OpponentUserID  *uint         `json:"opponent_user_id"` // nil for PVE
	CurrentTurnSide BattleSide    `json:"current_turn_side" gorm:"size:16"`
	WinnerSide      *BattleSide   `json:"winner_side" gorm:"size:16"`
	WinnerUserID    *uint         `json:"winner_user_id"`
	Participants    []Participant `json:"participants"`
}

func (Battle) TableName() string { return "battles" }

// ParticipantBySide returns the combatant record occupying the given side,
// or nil when that slot is still empty.
func (b *Battle) ParticipantBySide(side BattleSide) *Participant {
	for i := range b.Participants {
		if b.Participants[i].Side == side {
			return &b.Participants[i]
		}
	}
	return nil
}

// SideOfUser maps an authenticated user to the side they occupy. The machine
// side of a PVE battle never maps to a user.
func (b *Battle) SideOfUser(userID uint) (BattleSide, bool) {
	if b.InitiatorUserID == userID {
		return SideInitiator, true
	}
	if b.OpponentUserID != nil && *b.OpponentUserID == userID {
		return SideOpponent, true
	}
	return "", false
}

// IsParticipant reports whether the user occupies either side of the battle.
func (b *Battle) IsParticipant(userID uint) bool {
	_, ok := b.SideOfUser(userID)
	return ok
}

// AttackEvent is the unit broadcast to the realtime channel after each
// resolved attack. Events are ephemeral notifications, not a persisted log.
type AttackEvent struct {
	BattleID     uint       `json:"battle_id"`
	AttackerSide BattleSide `json:"attacker_side"`
	DefenderSide BattleSide `json:"defender_side"`
	Damage       int        `json:"damage"`
	DefenderHP   int        `json:"defender_hp"`
	Special      bool       `json:"special"`
	Timestamp    time.Time  `json:"ts"`
}
