package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressUpdate is one observer callback from a hash worker.
type progressUpdate struct {
	path  string
	done  int
	total int
}

// progressBar renders hashing progress on stderr. Observer callbacks arrive
// concurrently from hash workers, so they are funnelled through a channel and
// a single render goroutine owns the underlying bar. The compare mode runs
// two hash batches back to back; the renderer starts a fresh bar whenever the
// reported total changes.
type progressBar struct {
	updates   chan progressUpdate
	done      chan struct{}
	closeOnce sync.Once
}

func newProgressBar() *progressBar {
	p := &progressBar{
		updates: make(chan progressUpdate, 1024),
		done:    make(chan struct{}),
	}
	go p.render()
	return p
}

// observe satisfies the ProgressFunc contract. It never blocks a hash
// worker; if the renderer is behind, the update is dropped and a later
// Set64 catches the count up.
func (p *progressBar) observe(path string, done, total int) {
	select {
	case p.updates <- progressUpdate{path: path, done: done, total: total}:
	default:
	}
}

// Close stops the renderer and waits for the final frame. Safe to call more
// than once; the deferred call in run covers the error paths.
func (p *progressBar) Close() {
	p.closeOnce.Do(func() {
		close(p.updates)
		<-p.done
	})
}

func (p *progressBar) render() {
	defer close(p.done)

	var bar *progressbar.ProgressBar
	lastTotal := -1

	finish := func() {
		if bar != nil {
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
	}

	for update := range p.updates {
		if bar == nil || update.total != lastTotal {
			finish()
			bar = newBar(update.total)
			lastTotal = update.total
		}
		bar.Describe(fmt.Sprintf("hashing %s", shortName(update.path)))
		_ = bar.Set64(int64(update.done))
	}

	finish()
}

func newBar(total int) *progressbar.ProgressBar {
	bar := progressbar.NewOptions64(
		int64(total),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription("hashing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
	)
	_ = bar.RenderBlank()
	return bar
}

// shortName keeps the bar description to a single line: just the base name,
// capped so deep trees with long names cannot wrap the terminal.
func shortName(path string) string {
	name := filepath.Base(path)
	if len(name) > 40 {
		name = name[:37] + "..."
	}
	return name
}
