// Command adduser creates an account directly in the database, for operators
// bootstrapping an instance without going through the HTTP API. The password
// is read from the terminal without echo.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/avoronov/retrodesk/internal/dbx"
	"github.com/avoronov/retrodesk/internal/server/auth"
	"github.com/avoronov/retrodesk/internal/server/config"
	"github.com/avoronov/retrodesk/internal/server/models"
	"github.com/avoronov/retrodesk/internal/server/repositories/repomanager"
)

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	m := repomanager.NewPostgresManager()
	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN, m)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	reader := bufio.NewReader(os.Stdin)

	username, err := prompt(reader, "Username")
	if err != nil {
		log.Fatalf("input error: %v", err)
	}

	email, err := prompt(reader, "Email")
	if err != nil {
		log.Fatalf("input error: %v", err)
	}

	password, err := promptPassword("Password")
	if err != nil {
		log.Fatalf("input error: %v", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hashing error: %v", err)
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := m.Users(tx).Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
		})
		if err != nil {
			return err
		}

		if err := m.Settings(tx).CreateDefaults(ctx, user.ID); err != nil {
			return err
		}

		fmt.Printf("created user %s (%s)\n", user.Username, user.ID)
		return nil
	})
	if err != nil {
		log.Fatalf("user creation error: %v", err)
	}
}
