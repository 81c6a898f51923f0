package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// DuplicateError reports a unique constraint violation on Field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return "duplicate " + e.Field
}

// uniqueFields maps unique constraint names from migrations/ to the JSON
// field they guard.
var uniqueFields = map[string]string{
	"users_username_key":       "username",
	"students_roll_number_key": "rollNumber",
	"students_email_key":       "email",
	"students_room_number_key": "roomNumber",
	"students_user_id_key":     "userId",
}

// translate turns pgx errors into repository errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if field, ok := uniqueFields[pgErr.ConstraintName]; ok {
			return &DuplicateError{Field: field}
		}
		return &DuplicateError{Field: strings.TrimSuffix(pgErr.ConstraintName, "_key")}
	}
	return err
}
