package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osfr/internal/auth"
	"osfr/internal/config"
	"osfr/internal/db"
	"osfr/internal/logger"
	"osfr/internal/model"
	"osfr/internal/repository"
)

// Seed provisions an administrator account and the catalog categories.
// Existing rows are left untouched so the command can run on every deploy.
func main() {
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	username := flagSet.String("username", os.Getenv("ADMIN_USERNAME"), "administrator username")
	password := flagSet.String("password", os.Getenv("ADMIN_PASSWORD"), "administrator password")
	categories := flagSet.StringArray("category", nil, "category to create (repeatable)")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(2)
	}

	if err := run(*username, *password, *categories); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(username, password string, categories []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	l, err := logger.New(cfg.Production)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	gormDB, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer func() { _ = db.Close(gormDB) }()

	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if username != "" {
		if err := seedAdmin(ctx, l, gormDB, cfg.Auth.PasswordHash, username, password); err != nil {
			return err
		}
	}

	categoryRepo := repository.NewCategoryRepository(gormDB)
	for _, name := range categories {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, err := categoryRepo.FindByName(ctx, name)
		if err == nil {
			l.Info("category exists", zap.String("name", name))
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup category %q: %w", name, err)
		}
		if err := categoryRepo.Create(ctx, &model.Category{Name: name}); err != nil {
			return fmt.Errorf("create category %q: %w", name, err)
		}
		l.Info("category created", zap.String("name", name))
	}

	return nil
}

func seedAdmin(ctx context.Context, l *zap.Logger, gormDB *gorm.DB, algorithm, username, password string) error {
	if password == "" {
		return errors.New("--password is required with --username")
	}

	accountRepo := repository.NewAccountRepository(gormDB)
	existing, err := accountRepo.FindByUsernameCaseInsensitive(ctx, username)
	if err == nil {
		l.Info("administrator exists", zap.String("username", existing.Username))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup administrator: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(algorithm)
	if err != nil {
		return err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	if err := accountRepo.Create(ctx, &model.Account{Username: username, Password: hash}); err != nil {
		return fmt.Errorf("create administrator: %w", err)
	}
	l.Info("administrator created", zap.String("username", username), zap.String("hash", algorithm))
	return nil
}
