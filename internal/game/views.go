package game

import "time"

// CharacterView is the per-side character projection exposed to clients.
type CharacterView struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	Attack int    `json:"attack"`
}

// SideView is one combat slot as seen by a participant.
type SideView struct {
	UserID      *uint         `json:"user_id"`
	Character   CharacterView `json:"character"`
	SpecialUsed bool          `json:"special_used"`
}

// StateView is the full battle projection pushed over the realtime channel
// and returned by the battle read endpoint.
type StateView struct {
	ID              uint         `json:"id"`
	Mode            BattleMode   `json:"mode"`
	Status          BattleStatus `json:"status"`
	CurrentTurnSide BattleSide   `json:"current_turn_side"`
	WinnerSide      *BattleSide  `json:"winner_side"`
	WinnerUserID    *uint        `json:"winner_user_id"`
	Initiator       *SideView    `json:"initiator"`
	Opponent        *SideView    `json:"opponent"`
}

// LobbyView is the reduced projection for a PVP battle still waiting on
// character picks. Character stats are withheld until the match starts.
type LobbyView struct {
	ID                 uint           `json:"id"`
	Mode               BattleMode     `json:"mode"`
	Status             BattleStatus   `json:"status"`
	InitiatorUserID    uint           `json:"initiator_user_id"`
	OpponentUserID     *uint          `json:"opponent_user_id"`
	InitiatorPicked    bool           `json:"initiator_picked"`
	OpponentPicked     bool           `json:"opponent_picked"`
	InitiatorCharacter *CharacterName `json:"initiator_character"`
	OpponentCharacter  *CharacterName `json:"opponent_character"`
}

// CharacterName is the minimal lobby-visible character reference.
type CharacterName struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Summary is the battle-history list entry.
type Summary struct {
	ID              uint         `json:"id"`
	Mode            BattleMode   `json:"mode"`
	Status          BattleStatus `json:"status"`
	InitiatorUserID uint         `json:"initiator_user_id"`
	OpponentUserID  *uint        `json:"opponent_user_id"`
	WinnerSide      *BattleSide  `json:"winner_side"`
	WinnerUserID    *uint        `json:"winner_user_id"`
	CreatedAt       time.Time    `json:"created_at"`
}

func sideView(p *Participant) *SideView {
	if p == nil {
		return nil
	}
	return &SideView{
		UserID: p.UserID,
		Character: CharacterView{
			ID:     p.CharacterID,
			Name:   p.Character.Name,
			HP:     p.HP,
			MaxHP:  p.MaxHP,
			Attack: p.Attack,
		},
		SpecialUsed: p.SpecialUsed,
	}
}

// NewStateView builds the client projection from the aggregate.
func NewStateView(b *Battle) StateView {
	return StateView{
		ID:              b.ID,
		Mode:            b.Mode,
		Status:          b.Status,
		CurrentTurnSide: b.CurrentTurnSide,
		WinnerSide:      b.WinnerSide,
		WinnerUserID:    b.WinnerUserID,
		Initiator:       sideView(b.ParticipantBySide(SideInitiator)),
		Opponent:        sideView(b.ParticipantBySide(SideOpponent)),
	}
}

func lobbyCharacter(p *Participant) *CharacterName {
	if p == nil {
		return nil
	}
	return &CharacterName{ID: p.CharacterID, Name: p.Character.Name}
}

// NewLobbyView builds the pre-combat projection for a PVP lobby.
func NewLobbyView(b *Battle) LobbyView {
	ini := b.ParticipantBySide(SideInitiator)
	opp := b.ParticipantBySide(SideOpponent)
	return LobbyView{
		ID:                 b.ID,
		Mode:               b.Mode,
		Status:             b.Status,
		InitiatorUserID:    b.InitiatorUserID,
		OpponentUserID:     b.OpponentUserID,
		InitiatorPicked:    ini != nil,
		OpponentPicked:     opp != nil,
		InitiatorCharacter: lobbyCharacter(ini),
		OpponentCharacter:  lobbyCharacter(opp),
	}
}

// NewSummary builds the history list entry.
func NewSummary(b *Battle) Summary {
	return Summary{
		ID:              b.ID,
		Mode:            b.Mode,
		Status:          b.Status,
		InitiatorUserID: b.InitiatorUserID,
		OpponentUserID:  b.OpponentUserID,
		WinnerSide:      b.WinnerSide,
		WinnerUserID:    b.WinnerUserID,
		CreatedAt:       b.CreatedAt,
	}
}
