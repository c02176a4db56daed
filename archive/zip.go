// Package archive packages a directory tree into a deflate compressed zip file.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/0rca-network/opskit/internal/logger"
)

var (
	// DefaultSkipDirs are dependency and build directories left out of the archive. Hidden
	// directories are always skipped.
	DefaultSkipDirs = []string{"venv", ".venv", "__pycache__", "node_modules"}

	// DefaultSkipFiles are runtime artifacts left out wherever they appear.
	DefaultSkipFiles = []string{"agent_local.db", "agent_server.log"}
)

// Options configures ZipDir.
type Options struct {
	Source    string
	Output    string
	SkipDirs  []string
	SkipFiles []string
}

// DefaultOptions returns the options used to package the agent starter folder.
func DefaultOptions(source, output string) Options {
	return Options{
		Source:    source,
		Output:    output,
		SkipDirs:  slices.Clone(DefaultSkipDirs),
		SkipFiles: slices.Clone(DefaultSkipFiles),
	}
}

// Report describes a written archive.
type Report struct {
	Path    string
	Entries []string
	Size    int64
}

// ZipDir writes every file under opts.Source into opts.Output, keyed by its slash separated
// path relative to the source. If anything fails the partial archive is removed.
func ZipDir(ctx context.Context, opts Options) (report *Report, err error) {
	if opts.Source == "" || opts.Output == "" {
		return nil, errors.New("source and output are required")
	}

	info, err := os.Stat(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", opts.Source)
	}

	absOutput, err := filepath.Abs(opts.Output)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(opts.Output)
		}
	}()

	report = &Report{Path: opts.Output}
	zw := zip.NewWriter(f)
	lggr := logger.LoggerFrom(ctx)

	err = filepath.WalkDir(opts.Source, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != opts.Source && skipDir(d.Name(), opts.SkipDirs) {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() || slices.Contains(opts.SkipFiles, d.Name()) {
			return nil
		}
		if abs, absErr := filepath.Abs(path); absErr == nil && abs == absOutput {
			return nil
		}

		rel, relErr := filepath.Rel(opts.Source, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if addErr := addFile(zw, path, rel, d); addErr != nil {
			return fmt.Errorf("failed to add %s: %w", rel, addErr)
		}
		lggr.Infof("Added: %s", rel)
		report.Entries = append(report.Entries, rel)

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err = zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	if err = f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}

	out, err := os.Stat(opts.Output)
	if err != nil {
		return nil, err
	}
	report.Size = out.Size()

	return report, nil
}

func skipDir(name string, skip []string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(skip, name)
}

func addFile(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(w, src)

	return err
}
