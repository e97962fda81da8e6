package reserve

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source reads the exchange records from the external store.
//
// Sources only read: the store owns the lifecycle of the records.
type Source interface {
	Ledger(ctx context.Context) (*Ledger, error)
}

// FileSource reads a JSONL ledger file. When Path is a directory, every
// ".jsonl" file below it is read and merged, in lexical order of their path.
type FileSource struct {
	Path string
}

// Ledger implements Source.
func (s FileSource) Ledger(ctx context.Context) (*Ledger, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger %q: %w", s.Path, err)
	}
	if !info.IsDir() {
		return loadLedgerFile(s.Path, "")
	}

	paths, err := findLedgerPaths(s.Path)
	if err != nil {
		return nil, fmt.Errorf("could not list ledgers in %q: %w", s.Path, err)
	}
	ledger := NewLedger()
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(s.Path, p)
		if err != nil {
			return nil, fmt.Errorf("could not determine relative path for %q: %w", p, err)
		}
		l, err := loadLedgerFile(p, strings.TrimSuffix(rel, ".jsonl"))
		if err != nil {
			return nil, err
		}
		ledger.Merge(l)
	}
	return ledger, nil
}

// loadLedgerFile opens and decodes a ledger file. When name is not empty,
// the reason of each rejected line is prefixed with it.
func loadLedgerFile(fullPath, name string) (*Ledger, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", fullPath, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", fullPath, err)
	}
	if name != "" {
		for i := range ledger.rejected {
			ledger.rejected[i].Reason = name + ": " + ledger.rejected[i].Reason
		}
	}
	return ledger, nil
}

// SaveLedger writes a ledger to a JSONL file, creating its directory if
// needed.
func SaveLedger(path string, ledger *Ledger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", path, err)
	}
	defer file.Close()

	if err := EncodeLedger(file, ledger); err != nil {
		return err
	}
	return file.Close()
}

// findLedgerPaths returns the ".jsonl" files below path. WalkDir visits
// them in lexical order.
func findLedgerPaths(path string) ([]string, error) {
	var ledgers []string
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".jsonl") {
			ledgers = append(ledgers, p)
		}
		return nil
	})
	return ledgers, err
}
