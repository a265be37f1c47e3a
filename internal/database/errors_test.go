package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get user: %w", sql.ErrNoRows), ErrNotFound},
		{"unique violation", &pq.Error{Code: "23505", Constraint: "users_email_key"}, ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.in)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NoError(t, MapError(nil))

	other := errors.New("connection refused")
	assert.Same(t, other, MapError(other))
}

func TestConstraintName(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "users_username_key"})
	assert.Equal(t, "users_username_key", ConstraintName(err))
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(err))
	assert.Equal(t, "", ConstraintName(errors.New("plain")))

	mapped := MapError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	assert.ErrorIs(t, mapped, ErrDuplicate)
	assert.Equal(t, "users_username_key", ConstraintName(mapped))
}
