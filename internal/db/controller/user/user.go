// Package user stores local users with gorm and provides the atomic
// find-or-create used on sign-in.
package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/identity"
)

const emailQueryPattern = "email = ?"

var (
	// ErrUserNotFound is returned when no user has the requested email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrDBNil is returned when the store was built without a database connection.
	ErrDBNil = errors.New("database connection is nil")
)

// Store is the gorm backed user store.
type Store struct {
	db *gorm.DB
}

// New creates a user store on db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindByEmail returns the user with the given email.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	if s.db == nil {
		return models.User{}, ErrDBNil
	}

	var u models.User

	err := s.db.WithContext(ctx).Where(emailQueryPattern, email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}

	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

// FindByID returns the user with the given id.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	if s.db == nil {
		return models.User{}, ErrDBNil
	}

	var u models.User

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}

	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

// FindOrCreate returns the user with candidate.Email, inserting candidate when
// there is none. The insert relies on the unique email index: a row that
// appeared since the lookup makes the insert a no-op and the winner is read
// back. identity.ErrConflict is returned when the insert lost a race but the
// winning row can not be read yet, or the driver reports a duplicate key.
func (s *Store) FindOrCreate(ctx context.Context, candidate models.User) (models.User, bool, error) {
	existing, err := s.FindByEmail(ctx, candidate.Email)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, false, err
	}

	return s.insertOrReadBack(ctx, candidate)
}

// insertOrReadBack inserts candidate unless its email exists, in which case the stored row is returned.
func (s *Store) insertOrReadBack(ctx context.Context, candidate models.User) (models.User, bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&candidate)

	switch {
	case errors.Is(result.Error, gorm.ErrDuplicatedKey):
		return models.User{}, false, fmt.Errorf("%w: %w", identity.ErrConflict, result.Error)
	case result.Error != nil:
		return models.User{}, false, fmt.Errorf("failed to create user: %w", result.Error)
	case result.RowsAffected == 1:
		return candidate, true, nil
	}

	winner, err := s.FindByEmail(ctx, candidate.Email)
	if errors.Is(err, ErrUserNotFound) {
		return models.User{}, false, identity.ErrConflict
	}

	if err != nil {
		return models.User{}, false, err
	}

	return winner, false, nil
}
