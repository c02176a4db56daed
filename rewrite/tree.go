package rewrite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/diff"
	"go.uber.org/multierr"

	"github.com/0rca-network/opskit/internal/logger"
)

// TreeOptions configures ReplaceTree.
type TreeOptions struct {
	Root     string
	OldValue string
	NewValue string
	Filter   Filter

	// DryRun leaves files untouched. When DiffOut is set a unified diff of every pending
	// change is written to it.
	DryRun  bool
	DiffOut io.Writer
}

// TreeReport summarises a ReplaceTree run.
type TreeReport struct {
	Scanned      int
	Updated      []string
	Replacements int

	// Err aggregates the per-file failures that were skipped.
	Err error
}

// FilesUpdated returns the number of files rewritten (or that would be, on a dry run).
func (r *TreeReport) FilesUpdated() int {
	return len(r.Updated)
}

// Failures returns the individual per-file errors.
func (r *TreeReport) Failures() []error {
	return multierr.Errors(r.Err)
}

// ReplaceTree rewrites every included file under opts.Root that contains opts.OldValue.
//
// Failures on individual files are logged, collected in the report and skipped so one bad
// file never stops the walk. The returned error is reserved for invalid options, an
// unreadable root and context cancellation.
func ReplaceTree(ctx context.Context, opts TreeOptions) (*TreeReport, error) {
	if err := validatePair(opts.OldValue, opts.NewValue); err != nil {
		return nil, err
	}
	if opts.Root == "" {
		return nil, NewEmptyValueError("root")
	}

	lggr := logger.LoggerFrom(ctx)
	oldB, newB := []byte(opts.OldValue), []byte(opts.NewValue)
	report := &TreeReport{}

	lggr.Infof("Starting global replacement of %s -> %s", opts.OldValue, opts.NewValue)

	err := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == opts.Root {
				return err
			}
			lggr.Errorf("Error processing %s: %v", path, err)
			report.Err = multierr.Append(report.Err, err)

			return nil
		}

		if d.IsDir() {
			if path != opts.Root && opts.Filter.Prunes(d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() || !opts.Filter.Includes(d.Name()) {
			return nil
		}
		report.Scanned++

		n, ferr := replaceOne(path, oldB, newB, opts)
		if ferr != nil {
			lggr.Errorf("Error processing %s: %v", path, ferr)
			report.Err = multierr.Append(report.Err, ferr)

			return nil
		}
		if n > 0 {
			lggr.Infof("Updating: %s", path)
			report.Updated = append(report.Updated, path)
			report.Replacements += n
		}

		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to walk %s: %w", opts.Root, err)
	}

	lggr.Infof("Successfully updated %d files.", report.FilesUpdated())

	return report, nil
}

// replaceOne returns the number of occurrences replaced in path.
func replaceOne(path string, oldB, newB []byte, opts TreeOptions) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	n := bytes.Count(content, oldB)
	if n == 0 {
		return 0, nil
	}
	updated := bytes.ReplaceAll(content, oldB, newB)

	if opts.DryRun {
		if opts.DiffOut != nil {
			if err := diff.Text(path, path, content, updated, opts.DiffOut); err != nil {
				return 0, fmt.Errorf("failed to diff %s: %w", path, err)
			}
		}

		return n, nil
	}

	if err := writeFile(path, updated); err != nil {
		return 0, err
	}

	return n, nil
}
