package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upsertCall struct {
	id        string
	username  string
	firstName *string
	lastName  *string
	avatarURL *string
}

type fakeRepo struct {
	Repository
	upserts []upsertCall
}

func (f *fakeRepo) UpsertUserRow(ctx context.Context, id, username string, firstName, lastName, avatarURL *string) error {
	f.upserts = append(f.upserts, upsertCall{id, username, firstName, lastName, avatarURL})
	return nil
}

func newEnsureService(repo Repository) Service {
	return NewService(repo, nil, &Config{JWTSecret: "test-secret"})
}

func TestSplitName(t *testing.T) {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	cases := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
	}{
		{"two parts", "Jane Doe", "Jane", "Doe"},
		{"single part", "Jane", "Jane", ""},
		{"three parts join the tail", "Jane van Doe", "Jane", "van Doe"},
		{"extra whitespace", "  Jane   Doe  ", "Jane", "Doe"},
		{"empty", "", "", ""},
		{"whitespace only", "   ", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, last := SplitName(tc.input)
			assert.Equal(t, tc.wantFirst, deref(first))
			assert.Equal(t, tc.wantLast, deref(last))
		})
	}
}

func TestDefaultUsername(t *testing.T) {
	assert.Equal(t, "user_a1b2c3d4", defaultUsername("a1b2c3d4-e5f6-7890-abcd-ef1234567890"))
	assert.Equal(t, "user_abc", defaultUsername("abc"))
}

func TestEnsureUserRowUsernameFromMetadata(t *testing.T) {
	repo := &fakeRepo{}
	svc := newEnsureService(repo)

	err := svc.EnsureUserRow(context.Background(), &ProfileSeed{
		UserID:   "user-1",
		Username: "janedoe",
		Name:     "Jane Doe",
	})
	require.NoError(t, err)
	require.Len(t, repo.upserts, 1)

	call := repo.upserts[0]
	assert.Equal(t, "janedoe", call.username)
	assert.Equal(t, "Jane", *call.firstName)
	assert.Equal(t, "Doe", *call.lastName)
}

func TestEnsureUserRowUsernameFromEmail(t *testing.T) {
	repo := &fakeRepo{}
	svc := newEnsureService(repo)

	email := "jane.doe@example.com"
	err := svc.EnsureUserRow(context.Background(), &ProfileSeed{
		UserID: "user-1",
		Email:  &email,
	})
	require.NoError(t, err)
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, "jane.doe", repo.upserts[0].username)
}

func TestEnsureUserRowUsernameFallsBackToID(t *testing.T) {
	repo := &fakeRepo{}
	svc := newEnsureService(repo)

	err := svc.EnsureUserRow(context.Background(), &ProfileSeed{
		UserID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
	})
	require.NoError(t, err)
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, "user_a1b2c3d4", repo.upserts[0].username)
}

func TestEnsureUserRowTokenSeedCarriesNoProfileData(t *testing.T) {
	// Seeds built on the post-write path hold nothing beyond the token's
	// username. The emitted row must carry nil names and avatar so the
	// fill-if-empty upsert has nothing to overwrite existing data with.
	repo := &fakeRepo{}
	svc := newEnsureService(repo)

	err := svc.EnsureUserRow(context.Background(), &ProfileSeed{
		UserID:   "user-1",
		Username: "token_username",
	})
	require.NoError(t, err)
	require.Len(t, repo.upserts, 1)

	call := repo.upserts[0]
	assert.Equal(t, "token_username", call.username)
	assert.Nil(t, call.firstName)
	assert.Nil(t, call.lastName)
	assert.Nil(t, call.avatarURL)
}

func TestEnsureUserRowRequiresUserID(t *testing.T) {
	svc := newEnsureService(&fakeRepo{})

	err := svc.EnsureUserRow(context.Background(), &ProfileSeed{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
