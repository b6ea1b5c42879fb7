package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	q, args := paginate("SELECT 1", nil, 0, 0)
	assert.Equal(t, "SELECT 1", q)
	assert.Empty(t, args)

	q, args = paginate("SELECT 1 WHERE a = $1", []any{"x"}, 20, 40)
	assert.Equal(t, "SELECT 1 WHERE a = $1 LIMIT $2 OFFSET $3", q)
	assert.Equal(t, []any{"x", 20, 40}, args)

	q, args = paginate("SELECT 1", nil, 0, 5)
	assert.Equal(t, "SELECT 1 OFFSET $1", q)
	assert.Equal(t, []any{5}, args)
}

func TestSQLStateHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.True(t, isCheckViolation(check))
	assert.False(t, isCheckViolation(nil))
	assert.False(t, isForeignKeyViolation(errors.New("connection reset")))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	if p := nullable("abc"); assert.NotNil(t, p) {
		assert.Equal(t, "abc", *p)
	}
}
