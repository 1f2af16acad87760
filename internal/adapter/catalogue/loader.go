package catalogue

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"assessrec/internal/adapter/fs"
	"assessrec/internal/domain"
)

// Read parses one CSV catalogue. Row numbers continue from offset.
func Read(r io.Reader, offset int) ([]domain.CatalogueEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", domain.ErrMissingData)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	schema, err := ParseHeader(header)
	if err != nil {
		return nil, err
	}

	var entries []domain.CatalogueEntry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", offset+len(entries)+1, err)
		}
		if blank(record) {
			continue
		}
		entries = append(entries, schema.Entry(offset+len(entries), record))
	}
	return entries, nil
}

// LoadFile reads a single catalogue file.
func LoadFile(path string, offset int) ([]domain.CatalogueEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s not found", domain.ErrMissingData, path)
		}
		return nil, err
	}
	defer f.Close()

	entries, err := Read(f, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Load resolves patterns under root and concatenates the matching files in path order.
// It returns the entries and the files they came from.
func Load(root string, patterns []string) ([]domain.CatalogueEntry, []string, error) {
	files, err := fs.Resolve(root, patterns)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: no catalogue file matches %s", domain.ErrMissingData, strings.Join(patterns, ", "))
	}

	var all []domain.CatalogueEntry
	for _, path := range files {
		entries, err := LoadFile(path, len(all))
		if err != nil {
			return nil, nil, err
		}
		all = append(all, entries...)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%w: catalogue has no rows", domain.ErrMissingData)
	}
	return all, files, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
