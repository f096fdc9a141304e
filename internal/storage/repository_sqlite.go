package storage

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/progression"
)

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps the GORM handle in the Repository interface.
func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

// maxWriteAttempts bounds the internal retry for transient SQLite busy
// errors. Business errors are never retried.
const maxWriteAttempts = 3

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		err = fn()
		if !isTransient(err) {
			return err
		}
	}
	return err
}

// --- characters --------------------------------------------------------

func (r *sqliteRepository) GetCharacters() ([]game.Character, error) {
	var characters []game.Character
	if err := r.db.Order("id asc").Find(&characters).Error; err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *sqliteRepository) GetCharacterByID(id uint) (*game.Character, error) {
	var c game.Character
	if err := r.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepository) CreateCharacter(c *game.Character) error {
	return withRetry(func() error { return r.db.Create(c).Error })
}

func (r *sqliteRepository) UpdateCharacter(c *game.Character) error {
	return withRetry(func() error { return r.db.Save(c).Error })
}

func (r *sqliteRepository) DeleteCharacter(id uint) error {
	return withRetry(func() error { return r.db.Delete(&game.Character{}, id).Error })
}

// --- users -------------------------------------------------------------

func (r *sqliteRepository) GetUserByID(id uint) (*game.User, error) {
	var u game.User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) GetUserByEmail(email string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) UpsertUserByEmail(email, name string) (*game.User, error) {
	u, err := r.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		fresh := game.User{Email: email, Name: name, Role: game.RoleUser, Level: 1}
		if err := withRetry(func() error { return r.db.Create(&fresh).Error }); err != nil {
			return nil, err
		}
		return &fresh, nil
	}
	if name != "" && u.Name != name {
		u.Name = name
		if err := r.SaveUser(u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (r *sqliteRepository) SaveUser(u *game.User) error {
	return withRetry(func() error { return r.db.Save(u).Error })
}

func (r *sqliteRepository) GetRanking(take int) ([]game.User, error) {
	if take < 1 {
		take = 1
	}
	if take > 200 {
		take = 200
	}
	var users []game.User
	err := r.db.
		Order("level desc").
		Order("xp desc").
		Order("wins desc").
		Order("email asc").
		Limit(take).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// --- battles -----------------------------------------------------------

func (r *sqliteRepository) CreateBattle(b *game.Battle) error {
	return withRetry(func() error { return r.db.Create(b).Error })
}

func (r *sqliteRepository) GetBattleByID(id uint) (*game.Battle, error) {
	var b game.Battle
	if err := r.db.Preload("Participants.Character").First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// SaveBattle persists the aggregate with its participants as one unit.
func (r *sqliteRepository) SaveBattle(b *game.Battle) error {
	return withRetry(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(b).Error
		})
	})
}

func (r *sqliteRepository) CommitTurn(b *game.Battle, winnerUserID, loserUserID *uint, pol progression.Policy) error {
	return withRetry(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(b).Error; err != nil {
				return err
			}
			if err := applyProgression(tx, winnerUserID, progression.ApplyWin, pol); err != nil {
				return err
			}
			return applyProgression(tx, loserUserID, progression.ApplyLoss, pol)
		})
	})
}

func applyProgression(tx *gorm.DB, userID *uint, apply func(*game.User, progression.Policy), pol progression.Policy) error {
	if userID == nil {
		return nil
	}
	var u game.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, *userID).Error; err != nil {
		return err
	}
	apply(&u, pol)
	return tx.Save(&u).Error
}

func (r *sqliteRepository) ListBattlesByUser(userID uint) ([]game.Battle, error) {
	var battles []game.Battle
	err := r.db.
		Preload("Participants.Character").
		Where("initiator_user_id = ? OR opponent_user_id = ?", userID, userID).
		Order("id desc").
		Find(&battles).Error
	if err != nil {
		return nil, err
	}
	return battles, nil
}
