package app

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/learnpulse/internal/adapter/repository"
	"github.com/eslsoft/learnpulse/internal/adapter/retrieval"
	"github.com/eslsoft/learnpulse/internal/infrastructure/config"
	"github.com/eslsoft/learnpulse/internal/infrastructure/database"
	repo "github.com/eslsoft/learnpulse/internal/repository"
	"github.com/eslsoft/learnpulse/internal/usecase"
)

// Stores bundles the event and profile stores behind a single provider so
// both backends share one lifecycle.
type Stores struct {
	Events   repo.EventStore
	Profiles repo.ProfileStore
}

// defaultCatalog seeds the concept retriever until a curriculum service
// replaces it.
var defaultCatalog = []string{
	"algebra basics",
	"linear algebra",
	"quadratic equations",
	"geometry",
	"coordinate geometry",
	"trigonometry",
	"calculus",
	"differential calculus",
	"fractions",
	"decimal fractions",
	"percentages",
	"ratios and proportions",
	"probability",
	"statistics",
	"number theory",
	"word problems",
}

// ProvideStores selects the persistence backend from configuration.
func ProvideStores(cfg *config.Config, logger *logrus.Logger) (*Stores, func(), error) {
	switch cfg.DatabaseDriver() {
	case "memory":
		return &Stores{
			Events:   repository.NewMemoryEventStore(cfg.Engine.HistoryCap),
			Profiles: repository.NewMemoryProfileStore(),
		}, func() {}, nil
	case "postgres":
		pool, cleanup, err := database.NewConnection(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("driver", "postgres").Info("connected event store")
		return &Stores{
			Events:   repository.NewPostgresEventStore(pool, cfg.Engine.HistoryCap),
			Profiles: repository.NewPostgresProfileStore(pool),
		}, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver())
	}
}

// ProvideRetriever builds the concept retriever used to enrich content
// recommendations.
func ProvideRetriever() usecase.ConceptRetriever {
	return retrieval.NewKeywordRetriever(defaultCatalog)
}

// ProvideEngineParams maps configuration onto engine tuning parameters.
func ProvideEngineParams(cfg *config.Config) usecase.EngineParams {
	params := usecase.DefaultEngineParams()
	if cfg.Engine.HistoryCap > 0 {
		params.HistoryCap = cfg.Engine.HistoryCap
	}
	if cfg.Engine.ProfileWindowDays > 0 {
		params.ProfileWindow = time.Duration(cfg.Engine.ProfileWindowDays) * 24 * time.Hour
	}
	if cfg.Engine.ConfidenceThreshold > 0 {
		params.ConfidenceThreshold = cfg.Engine.ConfidenceThreshold
	}
	if cfg.Engine.MinDataPoints > 0 {
		params.MinDataPoints = cfg.Engine.MinDataPoints
	}
	if cfg.Engine.MaxRecommendations > 0 {
		params.MaxRecommendations = cfg.Engine.MaxRecommendations
	}
	return params
}
