package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/khoahotran/virtual-study-partner/adapters/persistence"
	"github.com/khoahotran/virtual-study-partner/internal/config"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/internal/domain/user"
	"github.com/khoahotran/virtual-study-partner/pkg/auth"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

// Adds SEED_EMAIL to the configured store, or resets its password.
func main() {
	fmt.Println("adding user into database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	name := os.Getenv("SEED_NAME")
	if email == "" || password == "" {
		log.Fatal("SEED_EMAIL and SEED_PASSWORD are required")
	}

	hash, err := auth.NewHasher(cfg.Auth.BcryptCost).Hash(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	ctx := context.Background()
	store, err := persistence.OpenStore(ctx, cfg, logger.NewZapLogger(cfg.App.Env))
	if err != nil {
		log.Fatalf("cannot open store: %v", err)
	}
	defer store.Close(ctx)

	if err := persistence.EnsureIndexes(ctx, store); err != nil {
		log.Fatalf("cannot create indexes: %v", err)
	}

	doc := document.Document{user.FieldEmail: email, user.FieldPassword: hash}
	if name != "" {
		doc[user.FieldName] = name
	}

	repo := persistence.NewUserRepo(store)
	err = repo.Create(ctx, user.FromDocument(doc))
	if errors.Is(err, user.ErrEmailTaken) {
		_, err = repo.UpdateFields(ctx, email, doc)
	}
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added or updated user '%s' successfully!\n", email)
}
