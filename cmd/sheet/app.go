package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/config"
	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/redis"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/blob"
	charrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/localslot"
	"github.com/KirkDiggler/rpg-sheet/internal/services/character"
	"github.com/KirkDiggler/rpg-sheet/internal/services/identity"
)

const defaultTimeout = 30 * time.Second

var (
	// Override flags
	flagLocalPath string
	flagUID       string
	flagRemote    string
	flagLogLevel  string
	timeout       time.Duration

	// Built once per invocation by setup
	cfg      *config.Config
	deps     *app
	closers  []func()
	rootCtx  context.Context
	cancelFn context.CancelFunc
)

// app holds the wired components a command works with
type app struct {
	service  *character.Persistence
	engine   engine.Engine
	identity *identity.Static
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.SetDefault(cfg.NewLogger(os.Stderr))

	rootCtx, cancelFn = context.WithTimeout(context.Background(), timeout)
	closers = append(closers, cancelFn)

	deps, err = buildApp(rootCtx, cfg)
	return err
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("local-path") {
		cfg.LocalPath = flagLocalPath
	}
	if flags.Changed("uid") {
		cfg.UID = flagUID
	}
	if flags.Changed("remote") {
		cfg.Remote = flagRemote
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

// teardown runs closers in reverse order of registration
func teardown() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	slot, err := localslot.Open(ctx, &localslot.Config{
		Path:     cfg.LocalPath,
		MaxBytes: cfg.LocalMaxBytes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open local storage")
	}
	closers = append(closers, func() { _ = slot.Close() })

	local, err := charrepo.NewLocal(&charrepo.LocalConfig{Slot: slot})
	if err != nil {
		return nil, err
	}

	remote, err := buildRemote(ctx, cfg)
	if err != nil {
		return nil, err
	}

	uploader, err := buildUploader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	eng, err := rpgtoolkit.NewAdapter(&rpgtoolkit.AdapterConfig{DiceRoller: dice.DefaultRoller})
	if err != nil {
		return nil, err
	}

	ident := identity.NewStatic(identity.Anonymous)
	svc, err := character.NewService(&character.Config{
		Local:           local,
		Remote:          remote,
		Identity:        ident,
		Uploader:        uploader,
		Clock:           clock.New(),
		MigrateOnSignIn: remote != nil,
	})
	if err != nil {
		return nil, err
	}
	closers = append(closers, svc.Close)

	if cfg.UID != "" {
		if err := ident.SignIn(ctx, cfg.UID); err != nil {
			return nil, err
		}
	}

	return &app{service: svc, engine: eng, identity: ident}, nil
}

func buildRemote(ctx context.Context, cfg *config.Config) (character.RemoteFactory, error) {
	switch cfg.Remote {
	case config.RemoteRedis:
		client, err := redis.Connect(&redis.ConnectConfig{
			Addrs:      cfg.RedisAddrs,
			MasterName: cfg.RedisMaster,
			Options: &redis.Options{
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
				UseTLS:   cfg.RedisTLS,
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to redis")
		}
		closers = append(closers, func() { _ = client.Close() })

		if err := redis.Ping(ctx, client, cfg.RedisAddrs); err != nil {
			return nil, err
		}

		return func(owner string) (charrepo.Store, error) {
			return charrepo.NewRedis(&charrepo.RedisConfig{Client: client, Owner: owner})
		}, nil

	case config.RemoteFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create firestore client")
		}
		closers = append(closers, func() { _ = client.Close() })

		return func(owner string) (charrepo.Store, error) {
			return charrepo.NewFirestore(&charrepo.FirestoreConfig{Client: client, Owner: owner})
		}, nil

	default:
		return nil, nil
	}
}

func buildUploader(ctx context.Context, cfg *config.Config) (blob.Uploader, error) {
	switch cfg.Images {
	case config.ImagesGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create storage client")
		}
		closers = append(closers, func() { _ = client.Close() })

		return blob.NewGCS(&blob.GCSConfig{Client: client, Bucket: cfg.GCSBucket})

	case config.ImagesS3:
		client, err := blob.NewS3Client(ctx, blob.S3ClientConfig{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}

		return blob.NewS3(&blob.S3Config{
			Client:        client,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicURL,
		})

	default:
		return nil, nil
	}
}
