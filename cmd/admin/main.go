// Command admin grants or revokes the admin role of a user.
//
//	admin grant <uid>
//	admin revoke <uid>
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"valomarket/internal/adapter/repository"
	"valomarket/internal/domain/entity"
	"valomarket/internal/infrastructure/firebase"
	"valomarket/internal/usecase"
	"valomarket/pkg/config"
	"valomarket/pkg/logger"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s grant|revoke <uid>\n", os.Args[0])
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
	}

	var role string
	switch flag.Arg(0) {
	case "grant":
		role = entity.RoleAdmin
	case "revoke":
		role = entity.RoleUser
	default:
		usage()
	}
	uid := flag.Arg(1)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreDriver != config.StoreFirestore {
		log.Fatalf("Role changes need STORE_DRIVER=%s", config.StoreFirestore)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.Environment); err != nil {
		log.Fatalf("Failed to configure logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var opts []option.ClientOption
	switch {
	case cfg.FirebaseServiceAccountJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)))
	case cfg.FirebaseServiceAccountPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseServiceAccountPath))
	}

	client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer client.Close()

	var claimer usecase.RoleClaimer
	if cfg.AuthProvider == config.AuthFirebase {
		app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		authClient, err := app.Auth(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
		fbClient, err := firebase.NewFirebaseAuthClient(ctx, authClient, "")
		if err != nil {
			log.Fatalf("Failed to create auth client: %v", err)
		}
		claimer = fbClient
	}

	users := usecase.NewUserUseCase(
		repository.NewFirestoreTransactor(client, cfg.StoreTxMaxAttempts),
		repository.NewFirestoreUserRepository(client),
		repository.NewFirestoreListingRepository(client),
		claimer,
		0,
	)

	if err := users.SetRole(ctx, uid, role); err != nil {
		log.Fatalf("Failed to set role: %v", err)
	}
	fmt.Printf("%s is now %s\n", uid, role)
}
