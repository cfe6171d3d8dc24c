package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/treebuild"
)

const (
	WATCH_DEBOUNCE_DURATION = 100 * time.Millisecond
)

// watch runs the description then re-runs it each time the description or the globals file
// changes, the tree is rebuilt when the description changes and reset when the globals change.
func (r *runner) watch(ctx context.Context) (exitCode int) {
	descriptionPath := filepath.Clean(r.descriptionPath)
	globalsPath := ""
	if r.globalsPath != "" {
		globalsPath = filepath.Clean(r.globalsPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		printError(r.errW, err)
		return ERROR_STATUS_CODE
	}
	defer watcher.Close()

	//editors often replace files, so the directories are watched
	dirs := map[string]struct{}{filepath.Dir(descriptionPath): {}}
	if globalsPath != "" {
		dirs[filepath.Dir(globalsPath)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			printError(r.errW, err)
			return ERROR_STATUS_CODE
		}
	}

	mod := r.build()
	if mod != nil {
		r.run(mod)
	}

	//the debounced function only signals the loop, the changes are handled by the loop goroutine.
	changes := make(chan struct{}, 1)
	debounced := debounce.New(WATCH_DEBOUNCE_DURATION)
	signalChanges := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	descriptionChanged := false
	globalsChanged := false

	for {
		select {
		case <-ctx.Done():
			return 0
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			switch filepath.Clean(event.Name) {
			case descriptionPath:
				descriptionChanged = true
			case globalsPath:
				globalsChanged = true
			default:
				continue
			}
			debounced(signalChanges)
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			r.logger.Err(err).Msg("watcher error")
		case <-changes:
			switch {
			case descriptionChanged:
				r.logger.Info().Str("path", descriptionPath).Msg("description changed, rebuilding the tree")
				mod = r.build()
			case globalsChanged && mod != nil:
				r.logger.Info().Str("path", globalsPath).Msg("globals changed, resetting the tree")
				core.Reset(mod)
			}
			descriptionChanged, globalsChanged = false, false

			if mod != nil {
				r.run(mod)
			}
		}
	}
}

func (r *runner) build() *core.Module {
	mod, err := treebuild.FromFile(r.descriptionPath)
	if err != nil {
		printError(r.errW, err)
		return nil
	}
	return mod
}
