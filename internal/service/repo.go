package service

import (
	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/progression"
)

// Repo is the slice of the storage layer the battle service depends on.
// storage.Repository satisfies it; tests supply mocks.
//
// Getters return (nil, nil) for a missing row; a non-nil error is a storage
// failure and propagates to the caller unchanged.
type Repo interface {
	GetBattleByID(id uint) (*game.Battle, error)
	CreateBattle(b *game.Battle) error
	// SaveBattle persists the aggregate (battle + participants) in one
	// transaction.
	SaveBattle(b *game.Battle) error
	// CommitTurn persists a resolved combat round and, when the battle just
	// finished, applies progression to the given accounts in the same
	// transaction. Nil ids are skipped (the PVE machine owns no account).
	CommitTurn(b *game.Battle, winnerUserID, loserUserID *uint, pol progression.Policy) error
	ListBattlesByUser(userID uint) ([]game.Battle, error)

	GetUserByID(id uint) (*game.User, error)
	GetCharacterByID(id uint) (*game.Character, error)
}
