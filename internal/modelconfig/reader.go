package modelconfig

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/icanbwell/language-model-gateway/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Reader resolves the configured model-definition source, caches results, and
// collapses concurrent loads into a single fetch.
type Reader struct {
	cfg   *config.Config
	cache *ExpiringCache[[]ChatModelConfig]
	group singleflight.Group
}

// NewReader constructs a Reader for the application configuration.
func NewReader(cfg *config.Config) *Reader {
	ttl := time.Duration(cfg.ModelConfigCacheTTLSeconds) * time.Second
	return &Reader{
		cfg:   cfg,
		cache: NewExpiringCache[[]ChatModelConfig](ttl),
	}
}

// ReadModelConfigs returns the enabled model definitions, loading them from
// the configured source on cache miss. Concurrent callers share one load.
func (r *Reader) ReadModelConfigs(ctx context.Context) ([]ChatModelConfig, error) {
	if cached, ok := r.cache.Get(); ok {
		return cached, nil
	}

	result, err, _ := r.group.Do("model-configs", func() (any, error) {
		// Re-check under singleflight in case another caller just finished.
		if cached, ok := r.cache.Get(); ok {
			return cached, nil
		}
		configs, errLoad := r.load(ctx)
		if errLoad != nil {
			return nil, errLoad
		}
		r.cache.Set(configs)
		return configs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]ChatModelConfig), nil
}

// Invalidate drops the cached definitions so the next read reloads them.
func (r *Reader) Invalidate() {
	r.cache.Clear()
	log.Info("modelconfig: cache invalidated")
}

func (r *Reader) load(ctx context.Context) ([]ChatModelConfig, error) {
	path := strings.TrimSpace(r.cfg.ModelConfigPath)
	if path == "" {
		return nil, fmt.Errorf("modelconfig: model-config-path is not configured")
	}

	var (
		configs []ChatModelConfig
		err     error
		source  string
	)
	switch {
	case strings.HasPrefix(path, "s3://"):
		source = "object store"
		var reader *ObjectReader
		reader, err = NewObjectReader(r.cfg.ObjectStore)
		if err == nil {
			configs, err = reader.ReadModelConfigs(ctx, path)
		}
	case IsGitHubURL(path):
		source = "github"
		configs, err = NewGitReader(r.cfg.GitStore).ReadModelConfigs(path)
	default:
		source = "filesystem"
		configs, err = (&FileReader{}).ReadModelConfigs(path)
	}
	if err != nil {
		return nil, err
	}

	if len(configs) == 0 && r.cfg.ModelConfigPathBackup != "" {
		log.Warnf("modelconfig: %s source returned no models, falling back to %s", source, r.cfg.ModelConfigPathBackup)
		configs, err = (&FileReader{}).ReadModelConfigs(r.cfg.ModelConfigPathBackup)
		if err != nil {
			return nil, err
		}
		source = "backup filesystem"
	}

	enabled := configs[:0]
	for _, cfg := range configs {
		if !cfg.Disabled {
			enabled = append(enabled, cfg)
		}
	}
	log.WithField("source", source).Infof("modelconfig: loaded %d model configurations", len(enabled))
	return enabled, nil
}
