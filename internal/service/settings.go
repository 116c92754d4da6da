package service

import (
	"time"

	"examiner-registry-backend/internal/config"
	"examiner-registry-backend/internal/domain"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

// Settings carries the collection names, batch sizes and thresholds the services share.
type Settings struct {
	Collections        config.CollectionsConfig
	PromotionChunkSize int
	ImportChunkSize    int
	Thresholds         domain.ThresholdConfig

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Collections:        cfg.Collections,
		PromotionChunkSize: cfg.Batch.PromotionChunkSize(),
		ImportChunkSize:    cfg.Batch.ImportChunkSize(),
		Thresholds:         cfg.ThresholdConfig(),
	}
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Collections: config.CollectionsConfig{
			Pending:        "applications",
			Approved:       "examiners",
			UpdateRequests: "updateRequests",
			TPinRegistry:   "tpin_registry",
		},
		PromotionChunkSize: 200,
		ImportChunkSize:    400,
		Thresholds:         domain.DefaultThresholds(),
	}
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Settings) today() string {
	return s.now().Format(dateLayout)
}

func (s Settings) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}
