// Package matchmaking implements the single-slot PVP waiting room: at most
// one player waits at a time, and the next distinct player to enqueue is
// matched immediately into a fresh LOBBY battle.
package matchmaking

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/logging"
)

// Status is the queue operation outcome reported to the caller.
type Status string

const (
	StatusQueued   Status = "QUEUED"
	StatusMatched  Status = "MATCHED"
	StatusCanceled Status = "CANCELED"
)

// Result describes the outcome of an enqueue or cancel call. TicketID
// identifies the waiting slot while QUEUED; BattleID and Users are populated
// only for MATCHED.
type Result struct {
	Status   Status  `json:"status"`
	TicketID string  `json:"ticket_id,omitempty"`
	BattleID uint    `json:"battle_id,omitempty"`
	Users    [2]uint `json:"-"`
}

// BattleCreator creates the PVP lobby battle that backs a fresh match.
// *service.Battles satisfies it.
type BattleCreator interface {
	CreatePvpLobby(initiatorUserID, opponentUserID uint) (*game.Battle, error)
}

type ticket struct {
	id       uuid.UUID
	userID   uint
	queuedAt time.Time
}

// Queue is the mutex-guarded single waiting slot. The lock is held across
// battle creation so two concurrent enqueues can never both observe an empty
// slot, and a racing cancel resolves deterministically: either it removes the
// ticket before a match forms, or the match already formed and cancel is a
// no-op.
type Queue struct {
	mu      sync.Mutex
	waiting *ticket
	battles BattleCreator
	now     func() time.Time
}

// NewQueue creates an empty queue backed by the given battle creator.
func NewQueue(battles BattleCreator) *Queue {
	return &Queue{battles: battles, now: time.Now}
}

// Enqueue places the caller in the waiting slot or matches them against the
// player already waiting. Re-enqueueing while waiting is idempotent and
// returns the same ticket.
func (q *Queue) Enqueue(userID uint) (Result, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.waiting == nil {
		q.waiting = &ticket{id: uuid.New(), userID: userID, queuedAt: q.now()}
		logging.Info("pvp ticket queued", logging.Fields{
			constants.LogFieldTicketID: q.waiting.id.String(),
			constants.LogFieldUserID:   userID,
		})
		return Result{Status: StatusQueued, TicketID: q.waiting.id.String()}, nil
	}
	if q.waiting.userID == userID {
		return Result{Status: StatusQueued, TicketID: q.waiting.id.String()}, nil
	}

	matched := q.waiting
	p1 := matched.userID
	p2 := userID

	b, err := q.battles.CreatePvpLobby(p1, p2)
	if err != nil {
		// the waiting player keeps their ticket; the caller can retry
		return Result{}, err
	}
	q.waiting = nil

	logging.Info("pvp ticket matched", logging.Fields{
		constants.LogFieldTicketID: matched.id.String(),
		constants.LogFieldBattleID: b.ID,
	})
	return Result{Status: StatusMatched, BattleID: b.ID, Users: [2]uint{p1, p2}}, nil
}

// Cancel clears the caller's ticket if they hold it. Always CANCELED, even
// when nothing was queued.
func (q *Queue) Cancel(userID uint) Result {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.waiting != nil && q.waiting.userID == userID {
		logging.Info("pvp ticket canceled", logging.Fields{
			constants.LogFieldTicketID: q.waiting.id.String(),
			constants.LogFieldUserID:   userID,
		})
		q.waiting = nil
	}
	return Result{Status: StatusCanceled}
}

// Waiting reports whether the given user currently holds the waiting ticket.
func (q *Queue) Waiting(userID uint) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waiting != nil && q.waiting.userID == userID
}
