package rewrite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/0rca-network/opskit/internal/logger"
)

// Outcome describes what a targeted substitution did to one file.
type Outcome int

const (
	OutcomeUpdated Outcome = iota
	OutcomeFileMissing
	OutcomeValueMissing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeFileMissing:
		return "file not found"
	case OutcomeValueMissing:
		return "value not found"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// FileOutcome pairs a path with its Outcome.
type FileOutcome struct {
	Path    string
	Outcome Outcome
}

// ReplaceInFile replaces every occurrence of oldValue with newValue in path. A missing file or a file
// without oldValue is reported through the Outcome, not as an error.
func ReplaceInFile(ctx context.Context, path, oldValue, newValue string) (Outcome, error) {
	if err := validatePair(oldValue, newValue); err != nil {
		return 0, err
	}
	lggr := logger.LoggerFrom(ctx)

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		lggr.Warnf("%s not found", path)
		return OutcomeFileMissing, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !bytes.Contains(content, []byte(oldValue)) {
		lggr.Infof("%q not found in %s", oldValue, path)
		return OutcomeValueMissing, nil
	}

	if err := writeFile(path, bytes.ReplaceAll(content, []byte(oldValue), []byte(newValue))); err != nil {
		return 0, err
	}
	lggr.Infof("Updated %s", path)

	return OutcomeUpdated, nil
}

// ReplaceInFiles runs ReplaceInFile over paths in order and stops at the first hard error.
func ReplaceInFiles(ctx context.Context, paths []string, oldValue, newValue string) ([]FileOutcome, error) {
	if err := validatePair(oldValue, newValue); err != nil {
		return nil, err
	}

	outcomes := make([]FileOutcome, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome, err := ReplaceInFile(ctx, path, oldValue, newValue)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, FileOutcome{Path: path, Outcome: outcome})
	}

	return outcomes, nil
}

// writeFile replaces the contents of an existing file, keeping its permission bits.
func writeFile(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
