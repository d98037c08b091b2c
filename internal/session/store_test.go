package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func demoStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	dir, err := DemoDirectory()
	require.NoError(t, err)
	storage := NewMemoryStorage()
	return NewStore(storage, dir, nil), storage
}

func storedKinds(t *testing.T, storage *MemoryStorage) []Kind {
	t.Helper()
	var kinds []Kind
	for _, k := range Priority {
		if _, err := storage.Get(context.Background(), storageKey(k)); err == nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func TestLoginEachKindPersistsOnlyItsKey(t *testing.T) {
	cases := []struct {
		email   string
		kind    Kind
		authKey string
	}{
		{"provider@tillpoint.dev", KindProvider, RoleProvider},
		{"owner@company.com", KindOwner, RoleOwner},
		{"cashier@company.com", KindStaff, "cashier"},
		{"user@company.com", KindRegular, RoleUser},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			store, storage := demoStore(t)
			ctx := context.Background()
			for _, other := range Priority {
				require.NoError(t, storage.Set(ctx, storageKey(other), []byte(`{"stale":true}`)))
			}

			ok, err := store.Login(ctx, tc.email, "anything")
			require.NoError(t, err)
			require.True(t, ok)

			kind, active := store.Kind()
			require.True(t, active)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.authKey, store.Current().AuthKey())
			assert.Equal(t, []Kind{tc.kind}, storedKinds(t, storage))
		})
	}
}

func TestLoginUnknownEmailLeavesSessionUntouched(t *testing.T) {
	store, storage := demoStore(t)
	ctx := context.Background()

	ok, err := store.Login(ctx, "owner@company.com", "x")
	require.NoError(t, err)
	require.True(t, ok)
	before, err := storage.Get(ctx, storageKey(KindOwner))
	require.NoError(t, err)

	ok, err = store.Login(ctx, "nobody@example.com", "x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, KindOwner, store.Current().Kind())

	after, err := storage.Get(ctx, storageKey(KindOwner))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, storage.Len())
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	store, _ := demoStore(t)
	ok, err := store.Login(context.Background(), "  Owner@Company.COM ", "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginPrefersHigherPriorityKind(t *testing.T) {
	dir, err := NewStaticDirectory([]byte(`
staff:
  - {id: s1, name: Dual, email: dual@example.com, role: cashier}
software_provider:
  - {id: p1, name: Dual, email: dual@example.com}
`))
	require.NoError(t, err)
	store := NewStore(NewMemoryStorage(), dir, nil)

	ok, err := store.Login(context.Background(), "dual@example.com", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, KindProvider, store.Current().Kind())
}

type hashedDirectory struct {
	acc Account
}

func (d hashedDirectory) Lookup(_ context.Context, kind Kind, email string) (*Account, error) {
	if kind != d.acc.Kind || NormalizeEmail(email) != d.acc.Email {
		return nil, ErrNoAccount
	}
	acc := d.acc
	return &acc, nil
}

func TestLoginVerifiesPasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	dir := Chain{hashedDirectory{acc: Account{Kind: KindOwner, ID: "9", Name: "Real", Email: "real@example.com", PasswordHash: string(hash)}}}
	store := NewStore(NewMemoryStorage(), dir, nil)
	ctx := context.Background()

	ok, err := store.Login(ctx, "real@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, store.Current())

	ok, err = store.Login(ctx, "real@example.com", "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	dir := hashedDirectory{acc: Account{Kind: KindRegular, ID: "1", Email: "off@example.com", Disabled: true}}
	store := NewStore(NewMemoryStorage(), dir, nil)
	ok, err := store.Login(context.Background(), "off@example.com", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingDirectory struct{}

func (failingDirectory) Lookup(context.Context, Kind, string) (*Account, error) {
	return nil, errors.New("db down")
}

func TestLoginPropagatesDirectoryFailure(t *testing.T) {
	store := NewStore(NewMemoryStorage(), failingDirectory{}, nil)
	ok, err := store.Login(context.Background(), "a@b.c", "")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "db down")
}

func TestLogoutThenRestoreYieldsNoPrincipal(t *testing.T) {
	store, storage := demoStore(t)
	ctx := context.Background()
	ok, err := store.Login(ctx, "manager@company.com", "")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Logout(ctx))
	require.NoError(t, store.Logout(ctx))
	assert.Nil(t, store.Current())
	assert.Zero(t, storage.Len())

	dir, _ := DemoDirectory()
	fresh := NewStore(storage, dir, nil)
	require.NoError(t, fresh.Restore(ctx))
	assert.Nil(t, fresh.Current())
}

func TestRestoreRehydratesPrincipal(t *testing.T) {
	store, storage := demoStore(t)
	ctx := context.Background()
	ok, err := store.Login(ctx, "waiter@company.com", "")
	require.NoError(t, err)
	require.True(t, ok)

	fresh := NewStore(storage, nil, nil)
	require.NoError(t, fresh.Restore(ctx))
	require.NotNil(t, fresh.Current())
	assert.Equal(t, store.Current(), fresh.Current())
}

func TestRestoreUsesCanonicalOrder(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	staff, _ := encode(StaffMember{ID: "s", Name: "S", Email: "s@x", RoleID: "chef"})
	owner, _ := encode(Owner{ID: "o", Name: "O", Email: "o@x"})
	require.NoError(t, storage.Set(ctx, storageKey(KindStaff), staff))
	require.NoError(t, storage.Set(ctx, storageKey(KindOwner), owner))

	store := NewStore(storage, nil, nil)
	require.NoError(t, store.Restore(ctx))
	assert.Equal(t, KindOwner, store.Current().Kind())
}

func TestRestoreDiscardsUndecodableValues(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	regular, _ := encode(RegularUser{ID: "u", Name: "U", Email: "u@x"})
	require.NoError(t, storage.Set(ctx, storageKey(KindProvider), []byte("{broken")))
	require.NoError(t, storage.Set(ctx, storageKey(KindStaff), []byte(`{"id":"s","email":"s@x"}`)))
	require.NoError(t, storage.Set(ctx, storageKey(KindRegular), regular))

	store := NewStore(storage, nil, nil)
	require.NoError(t, store.Restore(ctx))
	require.NotNil(t, store.Current())
	assert.Equal(t, KindRegular, store.Current().Kind())
	assert.Equal(t, RoleUser, store.Current().AuthKey())
	assert.Equal(t, 1, storage.Len())
}

func TestStaticDirectoryRejectsBadRoster(t *testing.T) {
	_, err := NewStaticDirectory([]byte("admins:\n  - {id: a, email: a@x}\n"))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = NewStaticDirectory([]byte("staff:\n  - {id: a, email: a@x}\n"))
	assert.Error(t, err)

	_, err = NewStaticDirectory([]byte("owner:\n  - {id: a, email: a@x}\n  - {id: b, email: A@X}\n"))
	assert.Error(t, err)
}

func TestChainSkipsUnknownAccounts(t *testing.T) {
	demo, err := DemoDirectory()
	require.NoError(t, err)
	chain := Chain{nil, hashedDirectory{acc: Account{Kind: KindOwner, ID: "x", Email: "other@example.com"}}, demo}

	acc, err := chain.Lookup(context.Background(), KindOwner, "owner@company.com")
	require.NoError(t, err)
	assert.Equal(t, "own-001", acc.ID)

	_, err = chain.Lookup(context.Background(), KindOwner, "ghost@example.com")
	assert.ErrorIs(t, err, ErrNoAccount)
}
