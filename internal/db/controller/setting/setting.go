// Package setting reads and writes named values in the settings table.
package setting

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/authcore/authcore/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to read or write a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its name.
func Get(ctx context.Context, db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting

	err := db.WithContext(ctx).Where(nameQueryPattern, name).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}

	if err != nil {
		return nil, err
	}

	return &setting, nil
}

// Set creates or overwrites a setting by name.
func Set(ctx context.Context, db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Name: name, Value: value}).Error
	if err != nil {
		return nil, err
	}

	return Get(ctx, db, name)
}

// GetOrCreate returns the stored value for name. When there is none, generate is
// called and its result stored. If another writer stores a value first, that
// value wins and is returned, so concurrent callers always agree.
func GetOrCreate(ctx context.Context, db *gorm.DB, name string, generate func() ([]byte, error)) (*models.Setting, error) {
	existing, err := Get(ctx, db, name)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}

	value, err := generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate setting %s: %w", name, err)
	}

	err = db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Setting{Name: name, Value: value}).Error
	if err != nil {
		return nil, err
	}

	return Get(ctx, db, name)
}

// Delete removes a setting by name.
func Delete(ctx context.Context, db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.WithContext(ctx).Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
