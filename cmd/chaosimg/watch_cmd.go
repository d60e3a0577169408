package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"ChaosImg/internal/watcher"
	"ChaosImg/pkg/filehandler"
)

func runWatch(a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var (
		keys      keyFlags
		dir       = fs.String("dir", "", "Directory to watch (required)")
		outDir    = fs.String("outdir", a.cfg.Output.Dir, "Directory for encrypted images")
		scheme    = fs.String("scheme", "", "Cipher scheme (default from config)")
		debounce  = fs.Int("debounce", a.cfg.Watch.DebounceMs, "Milliseconds a file must be quiet before it is encrypted")
		recursive = fs.Bool("recursive", a.cfg.Watch.Recursive, "Watch subdirectories too")
	)
	keys.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("-dir is required")
	}
	if *debounce < 0 {
		return errors.New("-debounce must not be negative")
	}

	key, keyScheme, err := keys.resolve()
	if err != nil {
		return err
	}
	s, err := a.pickScheme(*scheme, keyScheme)
	if err != nil {
		return err
	}

	absOut, err := filepath.Abs(*outDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(absOut, 0755); err != nil {
		return err
	}

	w, err := watcher.New(*dir, time.Duration(*debounce)*time.Millisecond, *recursive,
		watchFilter(absOut, a.cfg.Output.EncryptPrefix))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-w.Errors():
				a.log.WithError(err).Warn("watch error")
			}
		}
	}()

	printInfo("Watching %s with scheme %s, output to %s (Ctrl+C to stop)", w.Dir(), s.Name(), absOut)

	count := 0
	err = w.Run(ctx, func(path string) {
		res, err := a.processFile(opEncrypt, s, path, absOut, key, a.cfg.Output.Resize)
		if err != nil {
			printError("Encrypting %s: %v", path, err)
			a.log.WithError(err).WithField("file", path).Warn("watch encrypt failed")
			return
		}
		count++
		displayOperationResult(res)
	})

	a.log.WithFields(logrus.Fields{"dir": w.Dir(), "encrypted": count}).Info("watch stopped")
	printInfo("Stopped after encrypting %d file(s)", count)
	return err
}

// watchFilter accepts image files outside outDir that do not carry the
// encrypted prefix, so output written into a watched tree is never re-encrypted.
func watchFilter(outDir, encryptPrefix string) func(string) bool {
	return func(path string) bool {
		if !filehandler.IsImageFile(path) {
			return false
		}
		if encryptPrefix != "" && strings.HasPrefix(filepath.Base(path), encryptPrefix) {
			return false
		}
		rel, err := filepath.Rel(outDir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
		return true
	}
}
