package config

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch reloads the config file whenever it changes and hands the new
// config to apply. Editors replace files with rename+create, so watch the
// directory semantics fsnotify gives us and debounce bursts of events.
// Returns immediately if the path cannot be watched.
func Watch(ctx context.Context, path string, log zerolog.Logger, apply func(Config)) {
	if path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
		return
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		log.Warn().Err(err).Str("path", path).Msg("config watch unavailable")
		return
	}

	go func() {
		defer watcher.Close()

		var pending *time.Timer
		reload := func() {
			cfg, err := Load(path)
			if err != nil {
				log.Warn().Err(err).Msg("config reload failed, keeping previous")
				return
			}
			if err := cfg.Validate(); err != nil {
				log.Warn().Err(err).Msg("config reload invalid, keeping previous")
				return
			}
			log.Info().Str("path", path).Msg("config reloaded")
			apply(cfg)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if ev.Op&fsnotify.Rename != 0 {
					// re-arm after atomic replace
					_ = watcher.Add(path)
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(250*time.Millisecond, reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("config watch error")
			}
		}
	}()
}
