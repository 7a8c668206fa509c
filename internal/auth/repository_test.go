package auth

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertUserRowOnlyFillsEmptyFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	// A post-write seed is built from token claims: names and avatar come
	// through as nil and the username may predate a rename. The conflict
	// branch must keep whatever the row already holds, so the update has to
	// prefer users.* over EXCLUDED.* for every profile field.
	mock.ExpectExec(`ON CONFLICT \(id\) DO UPDATE SET\s+`+
		`username\s+= COALESCE\(users\.username, EXCLUDED\.username\),\s+`+
		`first_name = COALESCE\(users\.first_name, EXCLUDED\.first_name\),\s+`+
		`last_name\s+= COALESCE\(users\.last_name, EXCLUDED\.last_name\),\s+`+
		`avatar_url = COALESCE\(users\.avatar_url, EXCLUDED\.avatar_url\)`).
		WithArgs("user-1", "stale_token_name", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpsertUserRow(context.Background(), "user-1", "stale_token_name", nil, nil, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
