package service

import (
	"errors"
	"testing"

	"github.com/Dutrix96/batalla/internal/engine"
	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/progression"
)

type mockRepo struct {
	battles    map[uint]*game.Battle
	users      map[uint]*game.User
	characters map[uint]*game.Character

	nextBattleID uint
	saved        *game.Battle
	commits      int
	lastWinner   *uint
	lastLoser    *uint
	failCommit   bool
	getErr       error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		battles:    map[uint]*game.Battle{},
		users:      map[uint]*game.User{},
		characters: map[uint]*game.Character{},
	}
}

func (m *mockRepo) GetBattleByID(id uint) (*game.Battle, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.battles[id], nil
}

func (m *mockRepo) CreateBattle(b *game.Battle) error {
	m.nextBattleID++
	b.ID = m.nextBattleID
	m.battles[b.ID] = b
	return nil
}

func (m *mockRepo) SaveBattle(b *game.Battle) error {
	m.saved = b
	m.battles[b.ID] = b
	return nil
}

func (m *mockRepo) CommitTurn(b *game.Battle, winnerUserID, loserUserID *uint, pol progression.Policy) error {
	if m.failCommit {
		return errors.New("commit failed")
	}
	m.commits++
	m.lastWinner = winnerUserID
	m.lastLoser = loserUserID
	m.battles[b.ID] = b
	if winnerUserID != nil {
		if u, ok := m.users[*winnerUserID]; ok {
			progression.ApplyWin(u, pol)
		}
	}
	if loserUserID != nil {
		if u, ok := m.users[*loserUserID]; ok {
			progression.ApplyLoss(u, pol)
		}
	}
	return nil
}

func (m *mockRepo) ListBattlesByUser(userID uint) ([]game.Battle, error) {
	var out []game.Battle
	for _, b := range m.battles {
		if b.IsParticipant(userID) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockRepo) GetUserByID(id uint) (*game.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockRepo) GetCharacterByID(id uint) (*game.Character, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.characters[id], nil
}

func (m *mockRepo) addUser(id uint, level int) *game.User {
	u := &game.User{Level: level}
	u.ID = id
	m.users[id] = u
	return u
}

func (m *mockRepo) addCharacter(id uint, maxHP, attack, requiredLevel int) *game.Character {
	c := &game.Character{MaxHP: maxHP, Attack: attack, RequiredLevel: requiredLevel}
	c.ID = id
	m.characters[id] = c
	return c
}

func testPolicy() Policy {
	return Policy{
		Engine:      engine.Policy{MachineSpecialThresholdPercent: 30},
		Progression: progression.Policy{WinnerXP: 20, LoserXP: 10},
	}
}

func TestCreateBattle_PveStartsActive(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(1, 1)
	repo.addCharacter(10, 20, 6, 1)
	repo.addCharacter(11, 12, 3, 1)
	svc := NewBattles(repo, testPolicy())

	b, err := svc.CreateBattle(1, CreateBattleInput{
		Mode:                 game.ModePVE,
		InitiatorCharacterID: 10,
		OpponentCharacterID:  11,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != game.StatusActive {
		t.Fatalf("status = %s, want ACTIVE", b.Status)
	}
	if b.CurrentTurnSide != game.SideInitiator {
		t.Fatalf("turn = %s, want INITIATOR", b.CurrentTurnSide)
	}
	if len(b.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(b.Participants))
	}
	machine := b.ParticipantBySide(game.SideOpponent)
	if machine.UserID != nil {
		t.Fatalf("PVE opponent must own no account")
	}
	if machine.HP != 12 || machine.MaxHP != 12 || machine.Attack != 3 {
		t.Fatalf("machine snapshot wrong: %+v", machine)
	}
}

func TestCreateBattle_LevelGate(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(1, 1)
	repo.addCharacter(10, 180, 35, 5)
	repo.addCharacter(11, 12, 3, 1)
	svc := NewBattles(repo, testPolicy())

	_, err := svc.CreateBattle(1, CreateBattleInput{
		Mode:                 game.ModePVE,
		InitiatorCharacterID: 10,
		OpponentCharacterID:  11,
	})
	if !errors.Is(err, ErrLevelTooLow) {
		t.Fatalf("err = %v, want ErrLevelTooLow", err)
	}
}

func TestCreateBattle_PveOpponentExemptFromLevelGate(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(1, 1)
	repo.addCharacter(10, 110, 22, 1)
	repo.addCharacter(11, 250, 55, 7) // way above the player's level
	svc := NewBattles(repo, testPolicy())

	if _, err := svc.CreateBattle(1, CreateBattleInput{
		Mode:                 game.ModePVE,
		InitiatorCharacterID: 10,
		OpponentCharacterID:  11,
	}); err != nil {
		t.Fatalf("machine side must not be level gated: %v", err)
	}
}

func TestCreateBattle_PvpSelfChallengeRejected(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(1, 1)
	repo.addCharacter(10, 20, 6, 1)
	svc := NewBattles(repo, testPolicy())

	self := uint(1)
	_, err := svc.CreateBattle(1, CreateBattleInput{
		Mode:                 game.ModePVP,
		InitiatorCharacterID: 10,
		OpponentCharacterID:  10,
		OpponentUserID:       &self,
	})
	if !errors.Is(err, ErrSelfChallenge) {
		t.Fatalf("err = %v, want ErrSelfChallenge", err)
	}
}

func TestSelectCharacter_LobbyBecomesActiveOnSecondPick(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(1, 1)
	repo.addUser(2, 1)
	repo.addCharacter(10, 20, 6, 1)
	repo.addCharacter(11, 30, 4, 1)
	svc := NewBattles(repo, testPolicy())

	b, err := svc.CreatePvpLobby(1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err = svc.SelectCharacter(1, b.ID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != game.StatusLobby {
		t.Fatalf("one pick must keep the battle in LOBBY, got %s", b.Status)
	}

	b, err = svc.SelectCharacter(2, b.ID, 11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != game.StatusActive {
		t.Fatalf("status = %s, want ACTIVE", b.Status)
	}
	if b.CurrentTurnSide != game.SideInitiator {
		t.Fatalf("turn = %s, want INITIATOR", b.CurrentTurnSide)
	}
}

func TestSelectCharacter_ReselectReplacesSnapshot(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(1, 1)
	repo.addUser(2, 1)
	repo.addCharacter(10, 20, 6, 1)
	repo.addCharacter(11, 30, 4, 1)
	svc := NewBattles(repo, testPolicy())

	b, _ := svc.CreatePvpLobby(1, 2)
	if _, err := svc.SelectCharacter(1, b.ID, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.SelectCharacter(1, b.ID, 11)
	if err != nil {
		t.Fatalf("re-select must be allowed in lobby: %v", err)
	}
	if len(b.Participants) != 1 {
		t.Fatalf("participants = %d, want 1 (upsert, not append)", len(b.Participants))
	}
	p := b.ParticipantBySide(game.SideInitiator)
	if p.CharacterID != 11 || p.MaxHP != 30 {
		t.Fatalf("snapshot not replaced: %+v", p)
	}
}

func TestSelectCharacter_OutsiderForbidden(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(1, 1)
	repo.addUser(2, 1)
	repo.addUser(3, 1)
	repo.addCharacter(10, 20, 6, 1)
	svc := NewBattles(repo, testPolicy())

	b, _ := svc.CreatePvpLobby(1, 2)
	if _, err := svc.SelectCharacter(3, b.ID, 10); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}

func TestSelectCharacter_RejectedOutsideLobby(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(1, 1)
	repo.addUser(2, 1)
	repo.addCharacter(10, 20, 6, 1)
	repo.addCharacter(11, 30, 4, 1)
	svc := NewBattles(repo, testPolicy())

	b, _ := svc.CreatePvpLobby(1, 2)
	svc.SelectCharacter(1, b.ID, 10)
	svc.SelectCharacter(2, b.ID, 11)

	if _, err := svc.SelectCharacter(1, b.ID, 10); !errors.Is(err, ErrBattleNotInLobby) {
		t.Fatalf("err = %v, want ErrBattleNotInLobby", err)
	}
}

func activePvpBattle(repo *mockRepo) *game.Battle {
	repo.addUser(1, 1)
	repo.addUser(2, 1)
	opp := uint(2)
	b := &game.Battle{
		Mode:            game.ModePVP,
		Status:          game.StatusActive,
		InitiatorUserID: 1,
		OpponentUserID:  &opp,
		CurrentTurnSide: game.SideInitiator,
	}
	one, two := uint(1), uint(2)
	b.Participants = []game.Participant{
		{Side: game.SideInitiator, UserID: &one, Attack: 5, MaxHP: 30, HP: 30},
		{Side: game.SideOpponent, UserID: &two, Attack: 4, MaxHP: 30, HP: 30},
	}
	repo.CreateBattle(b)
	return b
}

func TestAttack_TurnViolationLeavesStateUnchanged(t *testing.T) {
	repo := newMockRepo()
	b := activePvpBattle(repo)
	svc := NewBattles(repo, testPolicy())

	_, _, err := svc.Attack(2, b.ID, false)
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	if repo.commits != 0 {
		t.Fatalf("no commit may happen on a rejected attack")
	}
	if hp := b.ParticipantBySide(game.SideInitiator).HP; hp != 30 {
		t.Fatalf("hp changed on rejected attack: %d", hp)
	}
	if b.CurrentTurnSide != game.SideInitiator {
		t.Fatalf("turn changed on rejected attack")
	}
}

func TestAttack_SpecialReuseRejected(t *testing.T) {
	repo := newMockRepo()
	b := activePvpBattle(repo)
	b.ParticipantBySide(game.SideInitiator).SpecialUsed = true
	svc := NewBattles(repo, testPolicy())

	_, _, err := svc.Attack(1, b.ID, true)
	if !errors.Is(err, ErrSpecialAlreadyUsed) {
		t.Fatalf("err = %v, want ErrSpecialAlreadyUsed", err)
	}
	if hp := b.ParticipantBySide(game.SideOpponent).HP; hp != 30 {
		t.Fatalf("rejected special must not deal damage, hp=%d", hp)
	}

	// retrying without the flag succeeds
	if _, _, err := svc.Attack(1, b.ID, false); err != nil {
		t.Fatalf("normal attack after rejected special: %v", err)
	}
}

func TestAttack_OutsiderForbidden(t *testing.T) {
	repo := newMockRepo()
	b := activePvpBattle(repo)
	repo.addUser(3, 1)
	svc := NewBattles(repo, testPolicy())

	if _, _, err := svc.Attack(3, b.ID, false); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}

func TestAttack_FinishedBattleRejected(t *testing.T) {
	repo := newMockRepo()
	b := activePvpBattle(repo)
	b.Status = game.StatusFinished
	svc := NewBattles(repo, testPolicy())

	if _, _, err := svc.Attack(1, b.ID, false); !errors.Is(err, ErrBattleNotActive) {
		t.Fatalf("err = %v, want ErrBattleNotActive", err)
	}
}

func TestAttack_PvpKillAppliesProgressionOnce(t *testing.T) {
	repo := newMockRepo()
	b := activePvpBattle(repo)
	b.ParticipantBySide(game.SideOpponent).HP = 5
	svc := NewBattles(repo, testPolicy())

	res, events, err := svc.Attack(1, b.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if res.Status != game.StatusFinished {
		t.Fatalf("status = %s, want FINISHED", res.Status)
	}
	if repo.commits != 1 || repo.lastWinner == nil || *repo.lastWinner != 1 {
		t.Fatalf("progression commit wrong: commits=%d winner=%v", repo.commits, repo.lastWinner)
	}
	if repo.lastLoser == nil || *repo.lastLoser != 2 {
		t.Fatalf("loser = %v, want 2", repo.lastLoser)
	}
	if repo.users[1].Wins != 1 || repo.users[1].XP != 20 {
		t.Fatalf("winner stats wrong: %+v", repo.users[1])
	}
	if repo.users[2].Losses != 1 || repo.users[2].XP != 10 {
		t.Fatalf("loser stats wrong: %+v", repo.users[2])
	}
}

func TestAttack_PveMachineWinChargesHumanLoss(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(1, 1)
	one := uint(1)
	b := &game.Battle{
		Mode:            game.ModePVE,
		Status:          game.StatusActive,
		InitiatorUserID: 1,
		CurrentTurnSide: game.SideInitiator,
	}
	b.Participants = []game.Participant{
		{Side: game.SideInitiator, UserID: &one, Attack: 1, MaxHP: 20, HP: 2},
		{Side: game.SideOpponent, UserID: nil, Attack: 3, MaxHP: 12, HP: 12},
	}
	repo.CreateBattle(b)
	svc := NewBattles(repo, testPolicy())

	res, events, err := svc.Attack(1, b.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2 (player then machine)", len(events))
	}
	if res.WinnerUserID != nil {
		t.Fatalf("machine winner owns no account, got %v", res.WinnerUserID)
	}
	if repo.lastWinner != nil {
		t.Fatalf("machine must never be credited")
	}
	if repo.users[1].Losses != 1 {
		t.Fatalf("human loss not charged: %+v", repo.users[1])
	}
}

func TestGetState_AccessControl(t *testing.T) {
	repo := newMockRepo()
	b := activePvpBattle(repo)
	repo.addUser(3, 1)
	svc := NewBattles(repo, testPolicy())

	if _, err := svc.GetState(1, b.ID); err != nil {
		t.Fatalf("participant read failed: %v", err)
	}
	if _, err := svc.GetState(3, b.ID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
	if _, err := svc.GetState(1, 999); !errors.Is(err, ErrBattleNotFound) {
		t.Fatalf("err = %v, want ErrBattleNotFound", err)
	}
}

func TestStorageFailureIsNotMaskedAsNotFound(t *testing.T) {
	repo := newMockRepo()
	b := activePvpBattle(repo)
	svc := NewBattles(repo, testPolicy())

	dbErr := errors.New("disk I/O error")
	repo.getErr = dbErr

	if _, err := svc.GetState(1, b.ID); !errors.Is(err, dbErr) {
		t.Fatalf("GetState err = %v, want the storage error", err)
	}
	if _, _, err := svc.Attack(1, b.ID, false); !errors.Is(err, dbErr) {
		t.Fatalf("Attack err = %v, want the storage error", err)
	}
	if _, err := svc.CreateBattle(1, CreateBattleInput{
		Mode:                 game.ModePVE,
		InitiatorCharacterID: 10,
		OpponentCharacterID:  11,
	}); !errors.Is(err, dbErr) {
		t.Fatalf("CreateBattle err = %v, want the storage error", err)
	}
	if _, err := svc.SelectCharacter(1, b.ID, 10); !errors.Is(err, dbErr) {
		t.Fatalf("SelectCharacter err = %v, want the storage error", err)
	}
}
