package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/codegate-events/internal/model"
)

// UserRepo manages persistence for users.
type UserRepo struct {
	db *gorm.DB
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, translate(err, ErrUserNotFound))
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("get user by email: %w", translate(err, ErrUserNotFound))
	}
	return &u, nil
}

// FirstOrCreate looks the user up by email and inserts u when missing.
// A concurrent insert of the same email surfaces as a duplicate key; the
// winner's row is then read back with a locking read, which sees the latest
// committed version even inside a transaction whose snapshot predates it.
func (r *UserRepo) FirstOrCreate(ctx context.Context, u *model.User) (*model.User, error) {
	existing, err := r.GetByEmail(ctx, u.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if terr := translate(err, nil); errors.Is(terr, ErrConflict) {
			return r.getByEmailShared(ctx, u.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) getByEmailShared(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		First(&u, "email = ?", email).Error
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", translate(err, ErrUserNotFound))
	}
	return &u, nil
}
