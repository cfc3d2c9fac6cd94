package assets

import (
	"github.com/mlb-trending/trending/internal/config"
	"github.com/mlb-trending/trending/internal/errors"
)

// FromConfig builds the store selected by cfg.Assets.Source.
func FromConfig(cfg *config.Config) (Store, error) {
	switch cfg.Assets.Source {
	case config.AssetSourceDir:
		return NewDirStore(cfg.AssetsPath()), nil
	case config.AssetSourceS3:
		client := NewS3Client(cfg.Assets.S3)
		return NewS3Store(client, cfg.Assets.S3.Bucket, cfg.Assets.S3.Prefix), nil
	}
	return nil, errors.New(errors.CodeAssetStore).
		WithDetailf("unknown asset source %q", cfg.Assets.Source)
}
