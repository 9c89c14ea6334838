package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/valkey-io/valkey-go"

	"github.com/ymori/visafaq/internal/domain/auth"
	"github.com/ymori/visafaq/internal/domain/faq"
	"github.com/ymori/visafaq/internal/domain/generation"
	"github.com/ymori/visafaq/internal/infra/candidates"
	"github.com/ymori/visafaq/internal/infra/config"
	"github.com/ymori/visafaq/internal/infra/faqrepo"
	"github.com/ymori/visafaq/internal/infra/faqstore"
	"github.com/ymori/visafaq/internal/infra/llm/chatgpt"
	"github.com/ymori/visafaq/internal/infra/refdocs"
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		SearchThreshold:  cfg.FAQ.SearchThreshold,
		ConfirmThreshold: cfg.FAQ.ConfirmThreshold,
		NoMatchMessage:   cfg.FAQ.NoMatchMessage,
	}
}

func provideGenerationConfig(cfg *config.Config) generation.Config {
	return generation.Config{
		DefaultCount:         cfg.Generation.DefaultCount,
		AttemptFactor:        cfg.Generation.AttemptFactor,
		PromptEntryLimit:     cfg.Generation.PromptEntryLimit,
		ReferenceTokenBudget: cfg.Generation.ReferenceTokenBudget,
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		AdminKeyHash: cfg.Auth.AdminKeyHash,
		JWTSecret:    cfg.Auth.JWTSecret,
		TokenTTL:     cfg.Auth.TokenTTL,
	}
}

type repositories struct {
	entries faq.EntryRepository
	pending faq.PendingRepository
}

func provideRepositories(cfg *config.Config, logger *slog.Logger) (repositories, error) {
	switch cfg.FAQ.Storage {
	case config.StoragePostgres:
		pool, err := newPostgresPool(cfg)
		if err != nil {
			return repositories{}, err
		}
		logger.Info("faq postgres repositories enabled")
		return repositories{
			entries: faqrepo.NewPostgresRepository(pool),
			pending: faqrepo.NewPostgresPendingRepository(pool),
		}, nil
	case config.StorageMemory:
		mem := faqrepo.NewMemoryRepository()
		return repositories{entries: mem, pending: mem.Pending()}, nil
	default:
		logger.Info("faq csv repositories enabled", "entries", cfg.FAQ.EntriesPath, "pending", cfg.FAQ.PendingPath)
		return repositories{
			entries: faqrepo.NewCSVRepository(cfg.FAQ.EntriesPath),
			pending: faqrepo.NewCSVPendingRepository(cfg.FAQ.PendingPath),
		}, nil
	}
}

func newPostgresPool(cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func provideStore(cfg *config.Config, logger *slog.Logger) faq.Store {
	if cfg.Store.Backend == config.StoreValkey {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return faqstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return faqstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey store enabled", "addr", cfg.Store.Addr)
			return faqstore.NewValkeyStore(client, cfg.Store.Prefix)
		}
	}
	return faqstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Store.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Store.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Store.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// provideFAQService hydrates the knowledge base before the server accepts
// traffic.
func provideFAQService(cfg faq.Config, repos repositories, store faq.Store, logger *slog.Logger) (faq.Service, error) {
	svc := faq.NewService(cfg, repos.entries, repos.pending, store, logger)
	if err := svc.Reload(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

// provideCandidateSource prefers ChatGPT with the rule-based source as the
// degradation path; without an API key the rule-based source runs alone.
func provideCandidateSource(cfg *config.Config, logger *slog.Logger) generation.CandidateSource {
	fallback := candidates.NewRuleBasedSource()
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, generation uses the rule-based source")
		return fallback
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	if err != nil {
		logger.Error("chatgpt client unavailable, generation uses the rule-based source", "error", err)
		return fallback
	}
	return candidates.NewChatGPTSource(client, cfg.LLM.Temperature, fallback, logger)
}

func provideReferenceLoader(cfg *config.Config, logger *slog.Logger) generation.ReferenceLoader {
	bucket := cfg.RefDocs.Bucket
	if bucket.Name != "" {
		client, err := minio.New(bucket.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(bucket.AccessKey, bucket.SecretKey, ""),
			Secure: bucket.UseSSL,
		})
		if err != nil {
			logger.Error("bucket client unavailable, reference documents disabled", "error", err)
			return nil
		}
		return refdocs.NewBucketLoader(client, bucket.Name, bucket.Prefix, logger)
	}
	if cfg.RefDocs.Dir != "" {
		return refdocs.NewDirLoader(cfg.RefDocs.Dir, logger)
	}
	return nil
}
