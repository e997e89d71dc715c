// Copyright © 2024 The Gide authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/luthersystems/gide/editor"
	"github.com/luthersystems/gide/textbuf"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// WatchCommand creates the "watch" cobra command.
func WatchCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	return &cobra.Command{
		Use:   "watch [DIR]",
		Short: "Format Go files whenever they are written",
		Long: `Watch DIR (default ".") and every directory below it. Whenever a .go
file is written, it is formatted the way an editor formats on save, and
rewritten if the formatter changed it. Formatter errors are printed
against the offending lines and the file is left alone.

Honors format_on_save: when it is false, files are left untouched.
Stop with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := cfg.session()
			if err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			w := &watcher{session: session, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			return w.watch(ctx, dir)
		},
	}
}

// watcher formats files on save, outside of an editor.
type watcher struct {
	session *editor.Session
	out     io.Writer
	errOut  io.Writer
}

// watch blocks until ctx is done, formatting .go files below dir as they
// are written.
func (w *watcher) watch(ctx context.Context, dir string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close() //nolint:errcheck

	if err := addTree(fsw, dir); err != nil {
		return err
	}
	log.WithField("dir", dir).Info("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fsw, ev)
		}
	}
}

func (w *watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op&fsnotify.Create > 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addTree(fsw, ev.Name); err != nil {
				log.WithError(err).WithField("dir", ev.Name).Warn("watching new directory")
			}
			return
		}
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isGoFile(ev.Name) {
		return
	}
	if _, err := w.formatFile(ctx, ev.Name); err != nil {
		log.WithError(err).WithField("file", ev.Name).Debug("format on save failed")
	}
}

// formatFile formats path as on save and reports whether it was
// rewritten.
func (w *watcher) formatFile(ctx context.Context, path string) (bool, error) {
	src, err := os.ReadFile(path) //nolint:gosec // watched files are user-selected
	if err != nil {
		return false, err
	}
	v := &editor.View{ID: path, FileName: path, Buffer: textbuf.New(string(src))}
	resp, err := w.session.Handle(ctx, editor.Event{Kind: editor.OnSave, View: v})
	if err != nil {
		return false, err
	}
	if resp.Status != "" {
		_ = newRenderer(src).RenderAll(w.errOut, resp.Diagnostics)
		fmt.Fprintf(w.errOut, "\n%s: %s\n", path, resp.Status)
		return false, nil
	}
	if !resp.Changed || resp.Text == string(src) {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(resp.Text), info.Mode().Perm()); err != nil {
		return false, err
	}
	fmt.Fprintf(w.out, "formatted %s\n", path)
	return true, nil
}

// addTree watches root and its subdirectories. fsnotify does not recurse
// on its own.
func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func init() {
	rootCmd.AddCommand(WatchCommand())
}
