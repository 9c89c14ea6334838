//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/ymori/visafaq/internal/bootstrap"
	"github.com/ymori/visafaq/internal/domain/auth"
	"github.com/ymori/visafaq/internal/domain/generation"
	"github.com/ymori/visafaq/internal/infra/config"
	httpiface "github.com/ymori/visafaq/internal/interface/http"
	"github.com/ymori/visafaq/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFAQConfig,
		provideGenerationConfig,
		provideAuthConfig,
		provideRepositories,
		provideStore,
		provideFAQService,
		provideCandidateSource,
		provideReferenceLoader,
		generation.NewService,
		auth.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
