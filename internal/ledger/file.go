package ledger

import (
	"fmt"
	"strings"

	"github.com/natefinch/atomic"

	"vidvault/internal/fileutil"
)

// LoadFile reads and parses the ledger at path. A missing file yields an
// empty ledger.
func LoadFile(path string) (*Ledger, error) {
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Ledger{}, nil
	}
	led, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return led, nil
}

// WriteFile atomically replaces the ledger file at path with the serialized
// form of l.
func (l *Ledger) WriteFile(path string) error {
	if err := atomic.WriteFile(path, strings.NewReader(l.Serialize())); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
