package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/beanbudget/budget"
)

type WatchCmd struct {
	File  string `help:"Budget spec file." arg:"" type:"existingfile"`
	Month string `help:"Month to show (YYYY-MM, defaults to the current month)." short:"m"`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	month, err := resolveMonth(cmd.Month)
	if err != nil {
		return err
	}

	runCtx := context.Background()

	absPath, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	spec, err := budget.LoadSpec(absPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(spec.Ledger); os.IsNotExist(err) {
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("Ledger %q does not exist. Create it?", spec.Ledger))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("ledger does not exist: %s", spec.Ledger)
		}
		if err := os.WriteFile(spec.Ledger, []byte(""), 0600); err != nil {
			return fmt.Errorf("failed to create ledger: %w", err)
		}
		printInfof(ctx.Stdout, "Created empty ledger file: %s", pathStyle.Render(spec.Ledger))
	}

	b, err := loadBudget(runCtx, cmd.File)
	if err != nil {
		return err
	}
	if err := renderMonth(ctx.Stdout, b, month); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, file := range watchedFiles(absPath, b) {
		if err := watcher.Add(file); err != nil {
			log.Printf("Warning: failed to watch %s: %v", file, err)
		}
	}

	printInfof(ctx.Stdout, "Watching %s for changes", pathStyle.Render(b.Spec.Ledger))

	cmd.runWatcher(runCtx, ctx, watcher, month)

	return nil
}

// watchedFiles lists every file a change of which should trigger a
// reload: the spec itself, the ledger, and the assigned amounts store.
func watchedFiles(specPath string, b *budget.Budget) []string {
	return []string{specPath, b.Spec.Ledger, b.Spec.Storage}
}

// runWatcher processes file system events with debouncing.
func (cmd *WatchCmd) runWatcher(runCtx context.Context, ctx *kong.Context, watcher *fsnotify.Watcher, month budget.Month) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	// Debounce timer - editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-runCtx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// React to write/create/remove/rename events
			// (Remove/Rename are common in atomic saves)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// Reset debounce timer
			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				cmd.handleFileChange(runCtx, ctx, watcher, month)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// handleFileChange reloads the budget, re-renders, and refreshes the
// watch list so atomically replaced files stay watched.
func (cmd *WatchCmd) handleFileChange(runCtx context.Context, ctx *kong.Context, watcher *fsnotify.Watcher, month budget.Month) {
	absPath, err := filepath.Abs(cmd.File)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	b, err := loadBudget(runCtx, cmd.File)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	_, _ = fmt.Fprintln(ctx.Stdout)
	if err := renderMonth(ctx.Stdout, b, month); err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	for _, file := range watchedFiles(absPath, b) {
		if err := watcher.Add(file); err != nil {
			log.Printf("Warning: failed to watch %s: %v", file, err)
		}
	}
}
