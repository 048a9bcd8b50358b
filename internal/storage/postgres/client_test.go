package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))

	fk := fmt.Errorf("insert trial: %w", &pq.Error{Code: codeForeignKeyViolation, Constraint: "trials_seed_id_fkey"})
	err := MapError(fk)
	assert.ErrorIs(t, err, ErrForeignKeyViolation)
	assert.Contains(t, err.Error(), "trials_seed_id_fkey")

	uniq := &pq.Error{Code: codeUniqueViolation, Constraint: "profiles_user_id_key"}
	assert.ErrorIs(t, MapError(uniq), ErrUniqueViolation)

	other := &pq.Error{Code: "42P01"}
	assert.Same(t, error(other), MapError(other))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, MapError(plain))
}

func TestMigrationNames_Sorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_schema.sql", names[0])
	assert.IsNonDecreasing(t, names)
}
