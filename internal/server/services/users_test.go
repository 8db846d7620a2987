package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/common"
	"github.com/avoronov/retrodesk/internal/server/auth"
	"github.com/avoronov/retrodesk/internal/server/config"
	"github.com/avoronov/retrodesk/internal/server/models"
	"github.com/avoronov/retrodesk/internal/server/repositories/repomanager"
)

func newUserService(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(db, rm, newTestLogger(), cfg)
}

func TestRegister_ValidationErrors(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(t, db, &fakeRepoManager{})

	tests := []struct {
		name      string
		username  string
		email     string
		password  string
		badFields []string
	}{
		{"short username", "ab", "a@example.com", "password123", []string{"username"}},
		{"bad email", "alice", "not-an-email", "password123", []string{"email"}},
		{"short password", "alice", "a@example.com", "short", []string{"password"}},
		{"everything wrong", "x", "nope", "p", []string{"username", "email", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.username, tt.email, tt.password)

			var validation *common.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(validation.Fields) != len(tt.badFields) {
				t.Fatalf("fields: got %v want %v", validation.Fields, tt.badFields)
			}
			for i := range tt.badFields {
				if validation.Fields[i] != tt.badFields[i] {
					t.Fatalf("fields: got %v want %v", validation.Fields, tt.badFields)
				}
			}
		})
	}
}

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	userID := uuid.New()
	users := &fakeUsersRepo{createOut: &models.User{ID: userID, Username: "alice", Email: "a@example.com"}}
	settings := &fakeSettingsRepo{}
	s := newUserService(t, db, &fakeRepoManager{users: users, settings: settings})

	result, err := s.Register(context.Background(), "alice", "a@example.com", "password123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if result.User.ID != userID || result.Token == "" {
		t.Fatalf("unexpected result: %+v", result)
	}

	// the token's subject is the new user's id
	subject, err := auth.ParseUserID(result.Token, []byte("k"))
	if err != nil {
		t.Fatalf("ParseUserID error: %v", err)
	}
	if subject != userID.String() {
		t.Fatalf("token subject: got %q want %q", subject, userID)
	}

	if len(settings.createdFor) != 1 || settings.createdFor[0] != userID {
		t.Fatalf("default settings not created for new user: %v", settings.createdFor)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_StampsLastLogin(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	users := &fakeUsersRepo{createOut: &models.User{ID: uuid.New()}}
	s := newUserService(t, db, &fakeRepoManager{users: users, settings: &fakeSettingsRepo{}})

	// registering counts as a login
	if _, err := s.Register(context.Background(), "alice", "a@example.com", "password123"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if users.lastLoginCalls != 1 {
		t.Fatalf("expected one last_login update on registration, got %d", users.lastLoginCalls)
	}
}

func TestRegister_LastLoginFailureRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	users := &fakeUsersRepo{createOut: &models.User{ID: uuid.New()}, lastLoginErr: errBoom{}}
	s := newUserService(t, db, &fakeRepoManager{users: users, settings: &fakeSettingsRepo{}})

	_, err := s.Register(context.Background(), "alice", "a@example.com", "password123")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	users := &fakeUsersRepo{usernameTaken: true}
	s := newUserService(t, db, &fakeRepoManager{users: users, settings: &fakeSettingsRepo{}})

	_, err := s.Register(context.Background(), "alice", "a@example.com", "password123")
	if !errors.Is(err, common.ErrorUsernameTaken) {
		t.Fatalf("want ErrorUsernameTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	users := &fakeUsersRepo{emailTaken: true}
	s := newUserService(t, db, &fakeRepoManager{users: users, settings: &fakeSettingsRepo{}})

	_, err := s.Register(context.Background(), "alice", "a@example.com", "password123")
	if !errors.Is(err, common.ErrorEmailTaken) {
		t.Fatalf("want ErrorEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_SettingsInsertFails(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	users := &fakeUsersRepo{createOut: &models.User{ID: uuid.New()}}
	settings := &fakeSettingsRepo{createErr: errBoom{}}
	s := newUserService(t, db, &fakeRepoManager{users: users, settings: settings})

	_, err := s.Register(context.Background(), "alice", "a@example.com", "password123")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestLogin_UnknownEmailAndWrongPassword_SameError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	digest, err := auth.HashPassword("rightpassword")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	// unknown email
	sUnknown := newUserService(t, db, &fakeRepoManager{users: &fakeUsersRepo{byEmailErr: common.ErrorNotFound}})
	_, errUnknown := sUnknown.Login(context.Background(), "ghost@example.com", "whatever1")

	// wrong password
	sWrong := newUserService(t, db, &fakeRepoManager{
		users: &fakeUsersRepo{byEmail: &models.User{ID: uuid.New(), PasswordHash: digest}},
	})
	_, errWrong := sWrong.Login(context.Background(), "a@example.com", "wrongpassword")

	if !errors.Is(errUnknown, common.ErrorInvalidCredentials) {
		t.Fatalf("unknown email: want ErrorInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrong, common.ErrorInvalidCredentials) {
		t.Fatalf("wrong password: want ErrorInvalidCredentials, got %v", errWrong)
	}
	// both paths must be indistinguishable to the caller
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("error messages differ: %q vs %q", errUnknown, errWrong)
	}
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	digest, err := auth.HashPassword("rightpassword")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	userID := uuid.New()
	users := &fakeUsersRepo{byEmail: &models.User{ID: userID, Email: "a@example.com", PasswordHash: digest}}
	s := newUserService(t, db, &fakeRepoManager{users: users})

	result, err := s.Login(context.Background(), "a@example.com", "rightpassword")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	subject, err := auth.ParseUserID(result.Token, []byte("k"))
	if err != nil {
		t.Fatalf("ParseUserID error: %v", err)
	}
	if subject != userID.String() {
		t.Fatalf("token subject: got %q want %q", subject, userID)
	}
	if users.lastLoginCalls != 1 {
		t.Fatalf("expected one last_login update, got %d", users.lastLoginCalls)
	}
}

func TestLogin_LookupFailureIsInvalidCredentials(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	// a broken lookup must be indistinguishable from a bad password
	s := newUserService(t, db, &fakeRepoManager{users: &fakeUsersRepo{byEmailErr: errBoom{}}})

	_, err := s.Login(context.Background(), "a@example.com", "whatever1")
	if !errors.Is(err, common.ErrorInvalidCredentials) {
		t.Fatalf("want ErrorInvalidCredentials, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	userID := uuid.New()
	s := newUserService(t, db, &fakeRepoManager{users: &fakeUsersRepo{byID: &models.User{ID: userID}}})

	user, err := s.GetByID(context.Background(), userID)
	if err != nil || user.ID != userID {
		t.Fatalf("GetByID: got (%v, %v)", user, err)
	}
}
