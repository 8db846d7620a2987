// Package services implements the business logic between the HTTP layer and
// the repositories: account lifecycle, the save-state store and the catalog
// scan.
package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/common"
	"github.com/avoronov/retrodesk/internal/dbx"
	"github.com/avoronov/retrodesk/internal/logging"
	"github.com/avoronov/retrodesk/internal/server/auth"
	"github.com/avoronov/retrodesk/internal/server/config"
	"github.com/avoronov/retrodesk/internal/server/models"
	"github.com/avoronov/retrodesk/internal/server/repositories/repomanager"
)

// AuthResult is what register and login hand back to the transport.
type AuthResult struct {
	User  *models.User
	Token string
}

type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		logger:                l.With("module", "user_service"),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

func validateRegistration(username, email, password string) error {
	var fields []string

	if len(username) < 3 || len(username) > 50 {
		fields = append(fields, "username")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields = append(fields, "email")
	}
	if len(password) < 8 {
		fields = append(fields, "password")
	}

	return common.NewValidationError(fields)
}

// Register creates an account, its default settings row and a fresh token.
// The existence checks, the user insert, the settings insert and the initial
// last_login stamp run in one transaction, so the unique constraints are the
// final arbiter of duplicate registrations. Registration counts as a login.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	var user *models.User

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := s.repomanager.Users(tx)

		taken, err := userRepo.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrorUsernameTaken
		}

		taken, err = userRepo.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrorEmailTaken
		}

		user, err = userRepo.Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
		})
		if err != nil {
			return err
		}

		if err := s.repomanager.Settings(tx).CreateDefaults(ctx, user.ID); err != nil {
			return err
		}

		return userRepo.UpdateLastLogin(ctx, user.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorUsernameTaken) || errors.Is(err, common.ErrorEmailTaken) {
			return nil, err
		}
		s.logger.Error(ctx, "registration failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID.String(), s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates by email and password. An unknown email, a wrong
// password and a failed lookup all produce the same error value on purpose;
// the real cause stays in the log.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {

	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		}
		return nil, common.ErrorInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	if err := userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "last_login update failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID.String(), s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}
