package pipeline

import (
	"github.com/matzehuels/mermaidboard/pkg/config"
	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/platform"
	"github.com/matzehuels/mermaidboard/pkg/platform/lucid"
	"github.com/matzehuels/mermaidboard/pkg/platform/miro"
)

// BuildRegistry registers the supported platforms from cfg. A platform
// with `disabled = true` is left out. Miro gets a backend when it has an
// access token. Lucid is declared without a backend, so it is listed as
// unconfigured and conversions to it fail with UNSUPPORTED.
func BuildRegistry(cfg config.Config) (*platform.Registry, error) {
	for _, name := range cfg.PlatformNames() {
		if name != miro.Name && name != lucid.Name {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown platform %q in configuration", name)
		}
	}

	reg := platform.NewRegistry()
	retry := cfg.Retry.Policy()

	if pc, ok := cfg.Platforms[miro.Name]; !ok || !pc.Disabled {
		entry := platform.Entry{
			Name:        miro.Name,
			DisplayName: miro.DisplayName,
			Converter:   miro.NewConverter(),
			Limits:      limits(pc),
			Retry:       retry,
		}
		if pc.AccessToken != "" {
			entry.Backend = miro.NewBackend(pc.BaseURL, pc.AccessToken, pc.Timeout.Duration)
		}
		if err := reg.Register(entry); err != nil {
			return nil, err
		}
	}

	if pc, ok := cfg.Platforms[lucid.Name]; !ok || !pc.Disabled {
		if err := reg.Register(platform.Entry{
			Name:        lucid.Name,
			DisplayName: lucid.DisplayName,
			Converter:   lucid.NewConverter(),
			Limits:      limits(pc),
			Retry:       retry,
		}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func limits(pc config.Platform) platform.Limits {
	return platform.Limits{
		RatePerSecond: pc.RatePerSecond,
		Burst:         pc.Burst,
		Concurrency:   pc.Concurrency,
	}
}
