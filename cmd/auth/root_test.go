package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/tabauth/internal/auth/app"
	"github.com/aussiebroadwan/tabauth/internal/auth/service"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func ptr[T any](v T) *T { return &v }

func TestLockUnlock(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "auth.db")
	cfg := app.Config{DatabaseDriver: app.DriverSQLite, DatabaseURL: dbPath, Port: 8080}

	db, err := app.OpenStore(context.Background(), cfg)
	require.NoError(t, err)

	users := &service.UserService{Store: db, Sessions: &service.SessionService{Store: db}}
	_, err = users.CreateAccount(context.Background(), service.NewAccount{
		Username: ptr("alice"),
		Email:    ptr("alice@example.com"),
		Password: ptr("password1"),
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := runCmd(t, "lock", "Alice", "payment overdue", "--database-url", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "locked alice: payment overdue")

	out, err = runCmd(t, "unlock", "alice", "--database-url", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "unlocked alice")

	_, err = runCmd(t, "unlock", "nobody", "--database-url", dbPath)
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "auth.db")

	out, err := runCmd(t, "migrate", "--database-url", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations completed successfully")
}

func TestLockRequiresArgs(t *testing.T) {
	_, err := runCmd(t, "lock", "alice")
	assert.Error(t, err)
}
