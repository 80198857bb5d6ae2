package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMalformed marks ledger text that does not follow the block format.
var ErrMalformed = errors.New("malformed ledger")

// Entry is one video in the ledger: its canonical name and its tags, in the
// order they were written. Tags are unique within an entry.
type Entry struct {
	Name string
	Tags []string
}

// Untagged reports whether the entry still awaits manual tagging.
func (e Entry) Untagged() bool {
	return len(e.Tags) == 0
}

// MergeTags unions tags into the entry, preserving the existing order and
// skipping tags already present. Matching is case-sensitive and exact.
func (e *Entry) MergeTags(tags []string) {
	for _, tag := range tags {
		if !slices.Contains(e.Tags, tag) {
			e.Tags = append(e.Tags, tag)
		}
	}
}

// Ledger is an ordered catalog of entries. After ingestion completes every
// canonical name appears at most once.
type Ledger struct {
	Entries []Entry
}

// Index maps each canonical name to its position in Entries.
func (l *Ledger) Index() map[string]int {
	index := make(map[string]int, len(l.Entries))
	for i, entry := range l.Entries {
		index[entry.Name] = i
	}
	return index
}

type parserState int

const (
	stateNoBlock parserState = iota
	stateInBlock
)

// Parse decodes the block text format: a `[name]` header line opens a block
// and every following non-blank line is a tag, until the next header. A tag
// line before any header is malformed.
func Parse(text string) (*Ledger, error) {
	led := &Ledger{}
	state := stateNoBlock
	var current Entry

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			name := strings.TrimSpace(line[1 : len(line)-1])
			if state == stateInBlock {
				led.Entries = append(led.Entries, current)
			}
			current = Entry{Name: name}
			state = stateInBlock
		case line == "":
			// Blank lines separate blocks and carry no state.
		default:
			if state == stateNoBlock {
				return nil, fmt.Errorf("%w: tag %q on line %d before any [name] header", ErrMalformed, line, i+1)
			}
			current.Tags = append(current.Tags, line)
		}
	}

	if state == stateInBlock {
		led.Entries = append(led.Entries, current)
	}
	return led, nil
}

// Serialize is the inverse of Parse: one block per entry, a blank line
// between blocks, no trailing blank line.
func (l *Ledger) Serialize() string {
	var b strings.Builder
	for i, entry := range l.Entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]\n", entry.Name)
		for _, tag := range entry.Tags {
			b.WriteString(tag)
			b.WriteString("\n")
		}
	}
	return b.String()
}
