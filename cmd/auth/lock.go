package main

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/tabauth/internal/auth/app"
	"github.com/aussiebroadwan/tabauth/internal/auth/service"
)

// NewLockCmd creates the lock subcommand.
func NewLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock <username> <message>",
		Short: "Lock an account",
		Long:  `Refuse further logins for an account. The message is shown to the user on login.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setLock(cmd, args[0], &args[1])
		},
	}
}

// NewUnlockCmd creates the unlock subcommand.
func NewUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <username>",
		Short: "Unlock an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setLock(cmd, args[0], nil)
		},
	}
}

func setLock(cmd *cobra.Command, username string, message *string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := app.OpenStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	users := &service.UserService{Store: db}
	user, err := users.SetLock(cmd.Context(), username, message)
	if err != nil {
		return err
	}

	if user.Locked() {
		cmd.Printf("locked %s: %s\n", user.Username, *user.LockMessage)
	} else {
		cmd.Printf("unlocked %s\n", user.Username)
	}
	return nil
}
