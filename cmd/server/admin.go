package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/blockedby/interview-list/internal/config"
	"github.com/blockedby/interview-list/internal/database"
	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/models"
	"github.com/blockedby/interview-list/internal/repository"
)

const adminUsage = "usage: server [disable-user|enable-user] EMAIL"

// accountRepository is the part of the users repository admin commands need.
type accountRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error
}

// isAdminCommand reports whether args start with an account admin command.
func isAdminCommand(args []string) bool {
	return len(args) > 0 && (args[0] == "disable-user" || args[0] == "enable-user")
}

// runAdmin connects to the database and runs one account admin command.
func runAdmin(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("%s", adminUsage)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	users := repository.NewUsersRepository(db.GORM, log)
	return setAccountDisabled(ctx, users, args[1], args[0] == "disable-user", out)
}

// setAccountDisabled flips the disabled flag of the account with email.
// Disabled accounts get auth/user-disabled on sign-in.
func setAccountDisabled(ctx context.Context, users accountRepository, email string, disabled bool, out io.Writer) error {
	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find %s: %w", email, err)
	}
	if err := users.SetDisabled(ctx, u.ID, disabled); err != nil {
		return err
	}

	state := "enabled"
	if disabled {
		state = "disabled"
	}
	fmt.Fprintf(out, "%s (%s) %s\n", u.Email, u.ID, state)
	return nil
}
