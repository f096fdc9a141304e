// Package service implements the battle use-cases on top of the storage
// layer: creation, lobby character selection, attack resolution and reads.
// Every mutating operation serializes on a per-battle lock and persists as a
// single transaction, so a combat round is never partially observable.
package service

import (
	"time"

	"github.com/Dutrix96/batalla/internal/engine"
	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/progression"
)

// Policy groups the gameplay tunables loaded from the config file.
type Policy struct {
	Engine      engine.Policy
	Progression progression.Policy
}

// Battles is the battle engine entry point used by the api layer and the
// matchmaking queue.
type Battles struct {
	repo   Repo
	locks  *battleLocks
	policy Policy
	now    func() time.Time
}

// NewBattles creates the battle service.
func NewBattles(repo Repo, pol Policy) *Battles {
	return &Battles{
		repo:   repo,
		locks:  newBattleLocks(),
		policy: pol,
		now:    time.Now,
	}
}

// CreateBattleInput is the direct-creation request: both characters are known
// up front, so the battle starts ACTIVE.
type CreateBattleInput struct {
	Mode                 game.BattleMode
	InitiatorCharacterID uint
	OpponentCharacterID  uint
	OpponentUserID       *uint // PVP only
}

func newParticipant(side game.BattleSide, userID *uint, ch *game.Character) game.Participant {
	return game.Participant{
		Side:        side,
		UserID:      userID,
		CharacterID: ch.ID,
		Character:   *ch,
		Attack:      ch.Attack,
		MaxHP:       ch.MaxHP,
		HP:          ch.MaxHP,
		SpecialUsed: false,
	}
}

// loadCharacterFor fetches a template and enforces the level gate for the
// owning account. A nil owner is the AI-controlled PVE side, which is exempt.
func (s *Battles) loadCharacterFor(characterID uint, owner *game.User) (*game.Character, error) {
	ch, err := s.repo.GetCharacterByID(characterID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrCharacterNotFound
	}
	if owner != nil && ch.RequiredLevel > owner.Level {
		return nil, ErrLevelTooLow
	}
	return ch, nil
}

// CreateBattle validates both selections and creates an ACTIVE battle with
// both combatant records populated and the initiator holding the turn.
func (s *Battles) CreateBattle(userID uint, in CreateBattleInput) (*game.Battle, error) {
	if in.Mode != game.ModePVE && in.Mode != game.ModePVP {
		return nil, ErrInvalidMode
	}

	initiator, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if initiator == nil {
		return nil, ErrUserNotFound
	}
	initiatorChar, err := s.loadCharacterFor(in.InitiatorCharacterID, initiator)
	if err != nil {
		return nil, err
	}

	b := &game.Battle{
		Mode:            in.Mode,
		Status:          game.StatusActive,
		InitiatorUserID: userID,
		CurrentTurnSide: game.SideInitiator,
	}

	var opponentUserID *uint
	var opponentChar *game.Character
	switch in.Mode {
	case game.ModePVP:
		if in.OpponentUserID == nil {
			return nil, ErrMissingOpponent
		}
		if *in.OpponentUserID == userID {
			return nil, ErrSelfChallenge
		}
		opponent, err := s.repo.GetUserByID(*in.OpponentUserID)
		if err != nil {
			return nil, err
		}
		if opponent == nil {
			return nil, ErrOpponentNotFound
		}
		opponentChar, err = s.loadCharacterFor(in.OpponentCharacterID, opponent)
		if err != nil {
			return nil, err
		}
		opponentUserID = in.OpponentUserID
	case game.ModePVE:
		// machine side: no owning account, no level gate
		opponentChar, err = s.loadCharacterFor(in.OpponentCharacterID, nil)
		if err != nil {
			return nil, err
		}
	}

	b.OpponentUserID = opponentUserID
	b.Participants = []game.Participant{
		newParticipant(game.SideInitiator, &userID, initiatorChar),
		newParticipant(game.SideOpponent, opponentUserID, opponentChar),
	}

	if err := s.repo.CreateBattle(b); err != nil {
		return nil, err
	}
	return b, nil
}

// CreatePvpLobby creates a PVP battle in LOBBY state with no characters
// selected yet. Used both for direct challenges and by the matchmaking queue.
func (s *Battles) CreatePvpLobby(initiatorUserID, opponentUserID uint) (*game.Battle, error) {
	if initiatorUserID == opponentUserID {
		return nil, ErrSelfChallenge
	}
	if u, err := s.repo.GetUserByID(opponentUserID); err != nil {
		return nil, err
	} else if u == nil {
		return nil, ErrOpponentNotFound
	}

	b := &game.Battle{
		Mode:            game.ModePVP,
		Status:          game.StatusLobby,
		InitiatorUserID: initiatorUserID,
		OpponentUserID:  &opponentUserID,
		CurrentTurnSide: game.SideInitiator,
	}
	if err := s.repo.CreateBattle(b); err != nil {
		return nil, err
	}
	return b, nil
}

// SelectCharacter upserts the caller's combatant record on a LOBBY battle.
// Re-selecting before the match starts simply replaces the prior snapshot.
// Once both sides picked, the battle transitions to ACTIVE.
func (s *Battles) SelectCharacter(userID, battleID, characterID uint) (*game.Battle, error) {
	lock := s.locks.get(battleID)
	lock.Lock()
	defer lock.Unlock()

	b, err := s.repo.GetBattleByID(battleID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBattleNotFound
	}
	if b.Mode != game.ModePVP {
		return nil, ErrLobbyOnlyPvp
	}
	if b.Status != game.StatusLobby {
		return nil, ErrBattleNotInLobby
	}
	side, ok := b.SideOfUser(userID)
	if !ok {
		return nil, ErrNotParticipant
	}

	caller, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrUserNotFound
	}
	ch, err := s.loadCharacterFor(characterID, caller)
	if err != nil {
		return nil, err
	}

	fresh := newParticipant(side, &userID, ch)
	if existing := b.ParticipantBySide(side); existing != nil {
		// keep the row identity, replace the snapshot
		fresh.Model = existing.Model
		fresh.BattleID = existing.BattleID
		*existing = fresh
	} else {
		b.Participants = append(b.Participants, fresh)
	}

	if b.ParticipantBySide(game.SideInitiator) != nil && b.ParticipantBySide(game.SideOpponent) != nil {
		b.Status = game.StatusActive
		b.CurrentTurnSide = game.SideInitiator
		b.WinnerSide = nil
		b.WinnerUserID = nil
	}

	if err := s.repo.SaveBattle(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Attack resolves the caller's turn. Preconditions are checked in order and
// the first failure wins; no mutation happens before all of them pass. For a
// PVE battle the machine's answer resolves inline, so the returned events may
// hold two entries in chronological order.
func (s *Battles) Attack(userID, battleID uint, special bool) (*game.Battle, []game.AttackEvent, error) {
	lock := s.locks.get(battleID)
	lock.Lock()
	defer lock.Unlock()

	b, err := s.repo.GetBattleByID(battleID)
	if err != nil {
		return nil, nil, err
	}
	if b == nil {
		return nil, nil, ErrBattleNotFound
	}
	if b.Status != game.StatusActive {
		return nil, nil, ErrBattleNotActive
	}
	side, ok := b.SideOfUser(userID)
	if !ok {
		return nil, nil, ErrNotParticipant
	}
	if b.CurrentTurnSide != side {
		return nil, nil, ErrNotYourTurn
	}
	attacker := b.ParticipantBySide(side)
	if special && attacker.SpecialUsed {
		return nil, nil, ErrSpecialAlreadyUsed
	}

	events := engine.ResolveTurn(b, side, special, s.policy.Engine, s.now())

	var winnerID, loserID *uint
	if b.Status == game.StatusFinished && b.WinnerSide != nil {
		winnerID = b.ParticipantBySide(*b.WinnerSide).UserID
		loserID = b.ParticipantBySide(b.WinnerSide.Opposite()).UserID
	}
	if err := s.repo.CommitTurn(b, winnerID, loserID, s.policy.Progression); err != nil {
		return nil, nil, err
	}
	return b, events, nil
}

// GetState returns the battle aggregate for a participant; anyone else is
// denied. The PVE machine side is always visible to the initiator.
func (s *Battles) GetState(userID, battleID uint) (*game.Battle, error) {
	b, err := s.repo.GetBattleByID(battleID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBattleNotFound
	}
	if !b.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return b, nil
}

// ListMyBattles returns history summaries for battles the caller takes part
// in, newest first (ordering is the repository's).
func (s *Battles) ListMyBattles(userID uint) ([]game.Summary, error) {
	battles, err := s.repo.ListBattlesByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]game.Summary, 0, len(battles))
	for i := range battles {
		out = append(out, game.NewSummary(&battles[i]))
	}
	return out, nil
}
