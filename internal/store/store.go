// Package store wraps gorm access for the five record collections with a
// small, uniform error taxonomy. Handlers translate these errors into HTTP
// statuses; nothing here retries.
package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound reports that no row matched the given id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a unique-constraint collision (invoiceId, username).
	ErrConflict = errors.New("unique constraint violation")
)

// isUniqueViolation matches both the sqlite and postgres driver messages,
// plus gorm's translated error when the dialect supports it.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// Insert persists a new record, assigning its surrogate id.
func Insert[T any](db *gorm.DB, rec *T) error {
	if err := db.Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return err
	}
	return nil
}

// Replace overwrites the record with the given id field-for-field (full-record
// replace; id and creation timestamp are preserved). The row is matched by id
// alone; an id carried inside rec is ignored. Extra columns can be kept
// untouched via omit. On success rec is reloaded with the stored row.
func Replace[T any](db *gorm.DB, id uint, rec *T, omit ...string) error {
	omit = append(omit, "id", "created_at")
	res := db.Model(new(T)).Where("id = ?", id).Select("*").Omit(omit...).Updates(rec)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("%w: %v", ErrConflict, res.Error)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	var stored T
	if err := db.First(&stored, id).Error; err != nil {
		return err
	}
	*rec = stored
	return nil
}

// Delete removes the record with the given id.
func Delete[T any](db *gorm.DB, id uint) error {
	res := db.Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every record in insertion order.
func List[T any](db *gorm.DB) ([]T, error) {
	var out []T
	if err := db.Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByMonth returns records whose date column falls in the given calendar
// month. Dates are stored as YYYY-MM-DD strings, so the filter is a prefix
// match. A month outside 1..12 or a non-positive year disables the filter.
func ListByMonth[T any](db *gorm.DB, dateColumn string, month, year int) ([]T, error) {
	q := db.Order("id asc")
	if month >= 1 && month <= 12 && year > 0 {
		q = q.Where(dateColumn+" LIKE ?", fmt.Sprintf("%04d-%02d%%", year, month))
	}
	var out []T
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Latest returns the most recently inserted record (highest surrogate id).
func Latest[T any](db *gorm.DB) (*T, error) {
	var rec T
	err := db.Order("id desc").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
