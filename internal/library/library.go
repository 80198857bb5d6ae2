package library

import (
	"errors"
	"fmt"
	"sort"

	"vidvault/internal/access"
	"vidvault/internal/ledger"
	"vidvault/internal/restrictions"
)

// ErrMissingThumbnail marks a ledger entry without a thumbnail mapping. The
// thumbnail stage must run before assembly; a library with holes is not a
// renderable artifact.
var ErrMissingThumbnail = errors.New("missing thumbnail")

// Grant is one password-gated access token for a restricted video.
type Grant struct {
	Rule       string
	IV         string
	Ciphertext string
}

// Access is the visibility of a video. Consumers must handle both variants
// exhaustively.
type Access interface {
	isAccess()
}

// Public exposes the canonical video name directly.
type Public struct {
	Video string
}

// Restricted hides the canonical name behind one grant per matching rule,
// in rule declaration order.
type Restricted struct {
	Grants []Grant
}

func (Public) isAccess()     {}
func (Restricted) isAccess() {}

// Video is one render-ready entry of the assembled library.
type Video struct {
	Date      *Date
	Tags      []string
	Thumbnail string
	Access    Access

	// Canonical name, kept for deterministic ordering. Never rendered for
	// restricted videos.
	name string
}

// Library is the sorted, render-ready view of the whole catalog. It is
// recomputed fully on every build.
type Library struct {
	Videos []Video
}

// Params carries the collaborators the assembler joins: the authoritative
// ledger, the declared rules, the thumbnail mapping, and the key-derivation
// parameters for access tokens.
type Params struct {
	Salt       string
	Iterations int
	Ledger     *ledger.Ledger
	Rules      *restrictions.Restrictions
	Thumbnails map[string]string
}

// Assemble builds the library from the ledger. Any entry's failure aborts
// the whole assembly.
func Assemble(params Params) (*Library, error) {
	videos := make([]Video, 0, len(params.Ledger.Entries))
	for _, entry := range params.Ledger.Entries {
		video, err := convert(params, entry)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	sort.Slice(videos, func(i, j int) bool {
		return videoLess(videos[i], videos[j])
	})

	return &Library{Videos: videos}, nil
}

func convert(params Params, entry ledger.Entry) (Video, error) {
	thumbnail, ok := params.Thumbnails[entry.Name]
	if !ok {
		return Video{}, fmt.Errorf("%w: no thumbnail for %s", ErrMissingThumbnail, entry.Name)
	}

	var acc Access
	matched := params.Rules.FindRules(entry.Tags)
	if len(matched) == 0 {
		acc = Public{Video: entry.Name}
	} else {
		grants := make([]Grant, 0, len(matched))
		for _, rule := range matched {
			encrypted, err := access.Encrypt(rule.Password, params.Salt, params.Iterations, entry.Name)
			if err != nil {
				return Video{}, fmt.Errorf("encrypt access to %s for rule %s: %w", entry.Name, rule.Name, err)
			}
			grants = append(grants, Grant{Rule: rule.Name, IV: encrypted.IV, Ciphertext: encrypted.Ciphertext})
		}
		acc = Restricted{Grants: grants}
	}

	// The date comes from the tag order as written; the rendered tag list
	// is sorted for stable display.
	date := ExtractDate(entry.Tags)
	tags := append([]string(nil), entry.Tags...)
	sort.Strings(tags)

	return Video{
		Date:      date,
		Tags:      tags,
		Thumbnail: thumbnail,
		Access:    acc,
		name:      entry.Name,
	}, nil
}

// videoLess orders by date descending, undated videos last, canonical name
// ascending as tie-break. The order is total and deterministic.
func videoLess(a, b Video) bool {
	switch {
	case a.Date != nil && b.Date == nil:
		return true
	case a.Date == nil && b.Date != nil:
		return false
	case a.Date != nil && b.Date != nil && *a.Date != *b.Date:
		return b.Date.Before(*a.Date)
	}
	return a.name < b.name
}
