package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitebuilder/internal/buildstate"
)

// watchedDirs are the project subtrees whose changes should retrigger a
// prebuild run.
var watchedDirs = []string{
	".",
	"context",
	"pages",
	"assets/images",
	"assets/fonts",
}

// ProjectWatcher monitors a project tree and emits debounced change
// notifications.
type ProjectWatcher struct {
	projectPath  string
	watcher      *fsnotify.Watcher
	triggerChan  chan struct{}
	debounceTime time.Duration
	onChange     func(ctx context.Context)
}

// NewProjectWatcher creates a watcher that calls onChange, debounced, after
// any relevant file in the project changes.
func NewProjectWatcher(projectPath string, debounce time.Duration, onChange func(ctx context.Context)) (*ProjectWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("resolve project path: %w", err)
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}

	return &ProjectWatcher{
		projectPath:  absPath,
		watcher:      watcher,
		triggerChan:  make(chan struct{}, 1),
		debounceTime: debounce,
		onChange:     onChange,
	}, nil
}

// Start adds the project subtrees to the watcher and begins the event loops.
// Missing subtrees are skipped; a project grows them as phases complete.
func (pw *ProjectWatcher) Start(ctx context.Context) error {
	added := 0
	for _, rel := range watchedDirs {
		dir := filepath.Join(pw.projectPath, filepath.FromSlash(rel))
		// Also watch slot folders one level below assets/images.
		dirs := []string{dir}
		if rel == "assets/images" {
			matches, _ := filepath.Glob(filepath.Join(dir, "*"))
			dirs = append(dirs, matches...)
		}
		for _, d := range dirs {
			if err := pw.watcher.Add(d); err == nil {
				added++
			}
		}
	}
	if added == 0 {
		return fmt.Errorf("no watchable directories under %s", pw.projectPath)
	}

	slog.Info("Starting project watcher", "project", pw.projectPath, "dirs", added)
	go pw.watchLoop(ctx)
	go pw.changeLoop(ctx)
	return nil
}

// Stop closes the file system watcher.
func (pw *ProjectWatcher) Stop() error {
	return pw.watcher.Close()
}

func (pw *ProjectWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if pw.ignored(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				slog.Debug("Project change detected", "file", event.Name, "op", event.Op.String())
				pw.trigger()
			}
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Project watcher error", "error", err)
		}
	}
}

// changeLoop collapses bursts of events into one onChange call.
func (pw *ProjectWatcher) changeLoop(ctx context.Context) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-pw.triggerChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(pw.debounceTime, func() {
				pw.onChange(ctx)
			})
		}
	}
}

func (pw *ProjectWatcher) trigger() {
	select {
	case pw.triggerChan <- struct{}{}:
	default:
		// A change is already pending.
	}
}

// ignored filters out our own state directory, the render output and editor
// temp files; reacting to them would loop the daemon on its own writes.
func (pw *ProjectWatcher) ignored(name string) bool {
	rel, err := filepath.Rel(pw.projectPath, name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	switch {
	case rel == buildstate.StateDirName || strings.HasPrefix(rel, buildstate.StateDirName+"/"):
		return true
	case rel == "dist" || strings.HasPrefix(rel, "dist/"):
		return true
	case rel == "research" || strings.HasPrefix(rel, "research/"):
		return true
	case strings.HasSuffix(rel, "~") || strings.HasSuffix(rel, ".swp") || strings.HasSuffix(rel, ".tmp"):
		return true
	}
	return false
}
