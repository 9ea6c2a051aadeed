package transformer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bean-transformer/internal/mapping"
	"bean-transformer/options"
)

// MappingWatcher reloads a mapping file into a transformer when it changes.
type MappingWatcher = mapping.Watcher

// ReloadDebounce sets the delay between the last change of a watched mapping
// file and its reload, 100ms by default.
func ReloadDebounce(d time.Duration) mapping.WatcherOption {
	return mapping.WithDebounce(d)
}

// LoadMappingFile applies the YAML mapping file at path: its flags, field
// mappings and skip list are merged into the current settings.
func (t *Transformer) LoadMappingFile(path string) error {
	mf, err := mapping.LoadFile(path)
	if err != nil {
		return err
	}

	return t.apply(mf.Apply)
}

// LoadMapping applies a YAML mapping document like LoadMappingFile.
func (t *Transformer) LoadMapping(data []byte) error {
	mf, err := mapping.Parse(data)
	if err != nil {
		return err
	}

	return t.apply(mf.Apply)
}

// WatchMappingFile applies the mapping file at path now and again every time
// it changes, until ctx is done or the watcher is stopped. Each load is
// applied on top of the settings the transformer had when watching started,
// so entries removed from the file disappear on reload. Reload errors are
// logged and leave the settings unchanged.
func (t *Transformer) WatchMappingFile(ctx context.Context, path string, opts ...mapping.WatcherOption) (*MappingWatcher, error) {
	base := t.settings.Load()

	reload := func(mf *mapping.MappingFile) {
		err := t.apply(func(s *options.Settings) error {
			next := base.Clone()
			if err := mf.Apply(next); err != nil {
				return err
			}

			*s = *next

			return nil
		})
		if err != nil {
			t.logger.Error("mapping file not applied", zap.String("path", path), zap.Error(err))
		}
	}

	opts = append([]mapping.WatcherOption{mapping.WithWatchLogger(t.logger)}, opts...)

	w, err := mapping.NewWatcher(path, reload, opts...)
	if err != nil {
		return nil, err
	}

	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return nil, err
	}

	return w, nil
}
