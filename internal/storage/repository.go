package storage

import (
	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/progression"
)

// Repository is the persistence surface of the server. It is a superset of
// the narrow interfaces the service layer declares for itself.
//
// Single-row getters return (nil, nil) when the row does not exist; a non-nil
// error always means the storage layer itself failed.
type Repository interface {
	// characters (catalog; admin CRUD plus engine reads)
	GetCharacters() ([]game.Character, error)
	GetCharacterByID(id uint) (*game.Character, error)
	CreateCharacter(c *game.Character) error
	UpdateCharacter(c *game.Character) error
	DeleteCharacter(id uint) error

	// users
	GetUserByID(id uint) (*game.User, error)
	GetUserByEmail(email string) (*game.User, error)
	// UpsertUserByEmail returns the account for the email, creating it with
	// defaults (level 1, USER role) on first login.
	UpsertUserByEmail(email, name string) (*game.User, error)
	SaveUser(u *game.User) error
	// GetRanking orders accounts by level, xp, wins (desc) then email.
	GetRanking(take int) ([]game.User, error)

	// battles
	CreateBattle(b *game.Battle) error
	GetBattleByID(id uint) (*game.Battle, error)
	SaveBattle(b *game.Battle) error
	// CommitTurn persists a resolved round and applies progression to the
	// given accounts inside the same transaction. Nil ids are skipped.
	CommitTurn(b *game.Battle, winnerUserID, loserUserID *uint, pol progression.Policy) error
	ListBattlesByUser(userID uint) ([]game.Battle, error)
}
