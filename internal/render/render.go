package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/natefinch/atomic"

	"vidvault/internal/config"
	"vidvault/internal/library"
	"vidvault/internal/logging"
)

//go:embed assets
var assets embed.FS

var staticAssets = []string{"css.css", "js.mjs"}

type pageGrant struct {
	Rule       string `json:"rule"`
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

type pageVideo struct {
	Thumbnail string
	Date      string
	Tags      []string
	TagsJSON  string
	// Video is the canonical name for public videos; empty when restricted.
	Video string
	// GrantsJSON carries the encrypted grants for restricted videos.
	GrantsJSON string
}

type tagCount struct {
	Tag   string
	Count int
}

type pageData struct {
	BuildTime        string
	AccessSalt       string
	AccessIterations int
	Videos           []pageVideo
	Tags             []tagCount
}

// Pages writes index.html and the static assets into the build directory.
func Pages(cfg *config.Config, logger *slog.Logger, lib *library.Library) error {
	logger = logging.NewComponentLogger(logger, "render")

	data, err := buildPageData(cfg, lib)
	if err != nil {
		return err
	}

	tmpl, err := template.ParseFS(assets, "assets/index.html.tmpl")
	if err != nil {
		return fmt.Errorf("parse page template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	indexPath := filepath.Join(cfg.BuildDir(), "index.html")
	if err := atomic.WriteFile(indexPath, &buf); err != nil {
		return fmt.Errorf("write %s: %w", indexPath, err)
	}

	for _, name := range staticAssets {
		content, err := assets.ReadFile("assets/" + name)
		if err != nil {
			return fmt.Errorf("read embedded asset %s: %w", name, err)
		}
		dst := filepath.Join(cfg.BuildDir(), name)
		if err := atomic.WriteFile(dst, bytes.NewReader(content)); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
	}

	logger.Info("rendered library page", "videos", len(lib.Videos), "path", indexPath)
	return nil
}

func buildPageData(cfg *config.Config, lib *library.Library) (pageData, error) {
	videos := make([]pageVideo, 0, len(lib.Videos))
	for _, video := range lib.Videos {
		tagsJSON, err := json.Marshal(video.Tags)
		if err != nil {
			return pageData{}, fmt.Errorf("encode tags: %w", err)
		}
		pv := pageVideo{
			Thumbnail: video.Thumbnail,
			Tags:      video.Tags,
			TagsJSON:  string(tagsJSON),
		}
		if video.Date != nil {
			pv.Date = video.Date.String()
		}

		switch acc := video.Access.(type) {
		case library.Public:
			pv.Video = acc.Video
		case library.Restricted:
			grants := make([]pageGrant, 0, len(acc.Grants))
			for _, grant := range acc.Grants {
				grants = append(grants, pageGrant{Rule: grant.Rule, IV: grant.IV, Ciphertext: grant.Ciphertext})
			}
			encoded, err := json.Marshal(grants)
			if err != nil {
				return pageData{}, fmt.Errorf("encode grants: %w", err)
			}
			pv.GrantsJSON = string(encoded)
		default:
			return pageData{}, fmt.Errorf("unhandled access type %T", video.Access)
		}

		videos = append(videos, pv)
	}

	return pageData{
		BuildTime:        time.Now().Format(time.RFC3339),
		AccessSalt:       cfg.Access.Salt,
		AccessIterations: cfg.Access.Iterations,
		Videos:           videos,
		Tags:             tagCloud(lib),
	}, nil
}

// tagCloud counts tag occurrences across the library, most frequent first,
// ties broken alphabetically.
func tagCloud(lib *library.Library) []tagCount {
	counts := make(map[string]int)
	for _, video := range lib.Videos {
		for _, tag := range video.Tags {
			counts[tag]++
		}
	}
	cloud := make([]tagCount, 0, len(counts))
	for tag, count := range counts {
		cloud = append(cloud, tagCount{Tag: tag, Count: count})
	}
	sort.Slice(cloud, func(i, j int) bool {
		if cloud[i].Count != cloud[j].Count {
			return cloud[i].Count > cloud[j].Count
		}
		return cloud[i].Tag < cloud[j].Tag
	})
	return cloud
}
