package main

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"valomarket/internal/adapter/repository"
	"valomarket/internal/adapter/repository/memory"
	domainrepo "valomarket/internal/domain/repository"
	"valomarket/internal/infrastructure/firebase"
	"valomarket/internal/infrastructure/identity"
	"valomarket/internal/infrastructure/storage"
	"valomarket/internal/usecase"
	"valomarket/pkg/config"
	"valomarket/pkg/logger"
)

// dependencies holds the adapters selected by configuration.
type dependencies struct {
	Transactor  domainrepo.Transactor
	Users       domainrepo.UserRepository
	Listings    domainrepo.ListingRepository
	Deposits    domainrepo.DepositRepository
	Withdrawals domainrepo.WithdrawalRepository
	Ledger      domainrepo.LedgerRepository
	Purchases   domainrepo.PurchaseRepository
	Chats       domainrepo.ChatRepository

	Verifier    usecase.TokenVerifier
	Identity    usecase.IdentityProvider
	RoleClaimer usecase.RoleClaimer
	Storage     usecase.FileStorage

	closers []func() error
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.Warn("Close failed: %v", err)
		}
	}
}

func credentialOptions(cfg *config.Config) []option.ClientOption {
	switch {
	case cfg.FirebaseServiceAccountJSON != "":
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))}
	case cfg.FirebaseServiceAccountPath != "":
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)}
	default:
		logger.Info("Using application default credentials")
		return nil
	}
}

func needsGoogleCloud(cfg *config.Config) bool {
	return cfg.StoreDriver == config.StoreFirestore ||
		cfg.AuthProvider == config.AuthFirebase ||
		cfg.StorageBucket != ""
}

func wire(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	deps := &dependencies{}

	var (
		opts []option.ClientOption
		app  *fbapp.App
	)
	if needsGoogleCloud(cfg) {
		opts = credentialOptions(cfg)
		var err error
		app, err = fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject, StorageBucket: cfg.StorageBucket}, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
		}
	}

	if err := wireStore(ctx, cfg, deps, opts); err != nil {
		deps.Close()
		return nil, err
	}
	if err := wireIdentity(ctx, cfg, deps, app); err != nil {
		deps.Close()
		return nil, err
	}
	if err := wireStorage(ctx, cfg, deps, opts); err != nil {
		deps.Close()
		return nil, err
	}

	return deps, nil
}

func wireStore(ctx context.Context, cfg *config.Config, deps *dependencies, opts []option.ClientOption) error {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		deps.Transactor = store
		deps.Users = store.Users()
		deps.Listings = store.Listings()
		deps.Deposits = store.Deposits()
		deps.Withdrawals = store.Withdrawals()
		deps.Ledger = store.Ledger()
		deps.Purchases = store.Purchases()
		deps.Chats = store.Chats()
		return nil
	}

	client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Firestore client: %w", err)
	}
	deps.closers = append(deps.closers, client.Close)

	deps.Transactor = repository.NewFirestoreTransactor(client, cfg.StoreTxMaxAttempts)
	deps.Users = repository.NewFirestoreUserRepository(client)
	deps.Listings = repository.NewFirestoreListingRepository(client)
	deps.Deposits = repository.NewFirestoreDepositRepository(client)
	deps.Withdrawals = repository.NewFirestoreWithdrawalRepository(client)
	deps.Ledger = repository.NewFirestoreLedgerRepository(client)
	deps.Purchases = repository.NewFirestorePurchaseRepository(client)
	deps.Chats = repository.NewFirestoreChatRepository(client)
	return nil
}

func wireIdentity(ctx context.Context, cfg *config.Config, deps *dependencies, app *fbapp.App) error {
	switch cfg.AuthProvider {
	case config.AuthFirebase:
		authClient, err := app.Auth(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize Firebase Auth: %w", err)
		}
		client, err := firebase.NewFirebaseAuthClient(ctx, authClient, cfg.FirebaseAPIKey)
		if err != nil {
			return err
		}
		if cfg.FirebaseAPIKey == "" {
			logger.Warn("FIREBASE_API_KEY is not set; password login is unavailable")
		}
		deps.Verifier = client
		deps.Identity = client
		deps.RoleClaimer = client

	case config.AuthJWKS:
		verifier, err := identity.NewJWKSVerifier(cfg.JWKSURL, cfg.JWTIssuer, cfg.JWTAudience)
		if err != nil {
			return err
		}
		deps.closers = append(deps.closers, func() error {
			verifier.Close()
			return nil
		})
		deps.Verifier = verifier
		deps.Identity = identity.ExternalProvider{}

	case config.AuthLocal:
		logger.Warn("Using local identity provider; accounts are lost on restart")
		provider := identity.NewLocalProvider(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
		deps.Verifier = provider
		deps.Identity = provider
	}
	return nil
}

func wireStorage(ctx context.Context, cfg *config.Config, deps *dependencies, opts []option.ClientOption) error {
	if cfg.StorageBucket == "" {
		logger.Warn("STORAGE_BUCKET is not set; uploads are kept in memory")
		deps.Storage = storage.NewMemoryStorage()
		return nil
	}

	client, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.FirebaseProject, cfg.CORSOrigins, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize Cloud Storage: %w", err)
	}
	deps.closers = append(deps.closers, client.Close)
	deps.Storage = client
	return nil
}
