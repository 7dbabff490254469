package vgmdb

import (
	"errors"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"vgmhub/pkg/models"
)

// ErrNotImplemented is returned for fields that exist on the source
// page but have no extractor yet. It always surfaces to the caller;
// notes must never silently default like the other fields do.
var ErrNotImplemented = errors.New("vgmdb: notes have not been added")

// soundtrackSuffix is stripped from the title when the page carries no
// product link to derive the game name from. Exact suffix match only.
const soundtrackSuffix = " Original Soundtrack"

// AlbumRecord is the field-accessor capability shared by freshly
// extracted records and records rebuilt from the cache.
type AlbumRecord interface {
	Title() string
	Game() string
	AlbumInfo() map[string]string
	Tracks() models.DiscTrackList
	Covers() []string
	Credits() map[string]string
	Notes() (string, error)
	RawPull() models.RawPull
}

type field string

const (
	fieldTitle     field = "title"
	fieldGame      field = "game"
	fieldAlbumInfo field = "album_info"
	fieldTracks    field = "tracks"
	fieldCovers    field = "covers"
	fieldCredits   field = "credits"
)

// Record extracts the normalized album fields from one parsed page.
// Every extractor is computed at most once per Record; the memo map is
// the only mutable state and the document itself is never touched after
// parse. A missing node structure yields the field's documented default
// rather than an error.
type Record struct {
	catalog string
	doc     *Document
	memo    map[field]any
}

func NewRecord(catalog string, doc *Document) *Record {
	return &Record{
		catalog: catalog,
		doc:     doc,
		memo:    make(map[field]any),
	}
}

func memoize[T any](r *Record, f field, compute func() T) T {
	if v, ok := r.memo[f]; ok {
		return v.(T)
	}
	v := compute()
	r.memo[f] = v
	return v
}

// Title is the first heading's text. The site renders its own error
// pages under a "System Message" heading; those map to "Not Found".
// A page without any heading yields the empty string.
func (r *Record) Title() string {
	return memoize(r, fieldTitle, func() string {
		h, ok := r.doc.First("h1")
		if !ok {
			log.Infof("[vgmdb] %s: no heading node", r.catalog)
			return ""
		}
		toks := h.StrippedStrings()
		if len(toks) == 0 {
			return ""
		}
		if toks[0] == "System Message" {
			return "Not Found"
		}
		return toks[0]
	})
}

var productHrefRE = regexp.MustCompile(`/product/[0-9]+`)

// Game is the text of the product reference link. Pages without one
// fall back to the title with the " Original Soundtrack" suffix
// removed; an absent title means an absent game.
func (r *Record) Game() string {
	return memoize(r, fieldGame, func() string {
		for _, a := range r.doc.All("a") {
			href, ok := a.Attr("href")
			if !ok || !productHrefRE.MatchString(href) {
				continue
			}
			toks := a.StrippedStrings()
			if len(toks) > 0 {
				return toks[0]
			}
		}
		title := r.Title()
		if title == "" {
			return ""
		}
		return strings.TrimSuffix(title, soundtrackSuffix)
	})
}

// AlbumInfo reads the metadata table row by row. Rows whose first cell
// carries a styling class are decorative separators, not data. Keys are
// kept exactly as labeled on the page.
func (r *Record) AlbumInfo() map[string]string {
	return memoize(r, fieldAlbumInfo, func() map[string]string {
		info := map[string]string{}
		table, ok := r.doc.First("table#album_infobit_large")
		if !ok {
			log.Errorf("[vgmdb] %s: album info table not found", r.catalog)
			return info
		}
		for _, row := range table.All("tr") {
			td, ok := row.First("td")
			if !ok || td.HasAttr("class") {
				continue
			}
			toks := row.StrippedStrings()
			if len(toks) < 2 {
				continue
			}
			info[toks[0]] = toks[1]
		}
		return info
	})
}

// Tracks groups the track listing per disc in source document order.
func (r *Record) Tracks() models.DiscTrackList {
	return memoize(r, fieldTracks, func() models.DiscTrackList {
		return extractTracks(r.catalog, r.doc)
	})
}

// Covers lists the gallery image URLs; an absent gallery is an empty
// list, not an error.
func (r *Record) Covers() []string {
	return memoize(r, fieldCovers, func() []string {
		covers := []string{}
		gallery, ok := r.doc.First("div#cover_gallery")
		if !ok {
			log.Infof("[vgmdb] %s: no covers found", r.catalog)
			return covers
		}
		table, ok := gallery.First("table")
		if !ok {
			return covers
		}
		for _, a := range table.All("a") {
			if href, ok := a.Attr("href"); ok {
				covers = append(covers, href)
			}
		}
		return covers
	})
}

// Credits maps role labels to a comma-joined list of credited names.
func (r *Record) Credits() map[string]string {
	return memoize(r, fieldCredits, func() map[string]string {
		return extractCredits(r.catalog, r.doc)
	})
}

func (r *Record) Notes() (string, error) {
	return "", ErrNotImplemented
}

// RawPull assembles the source-shaped projection from all extractors.
func (r *Record) RawPull() models.RawPull {
	return models.RawPull{
		Title:     r.Title(),
		Game:      r.Game(),
		AlbumInfo: r.AlbumInfo(),
		Tracks:    r.Tracks(),
		Covers:    r.Covers(),
		Credits:   r.Credits(),
	}
}

// cachedRecord serves the same accessor set straight from a cached raw
// pull, so cache hits skip fetching and re-extraction entirely.
type cachedRecord struct {
	pull models.RawPull
}

func (c cachedRecord) Title() string                 { return c.pull.Title }
func (c cachedRecord) Game() string                  { return c.pull.Game }
func (c cachedRecord) AlbumInfo() map[string]string  { return c.pull.AlbumInfo }
func (c cachedRecord) Tracks() models.DiscTrackList  { return c.pull.Tracks }
func (c cachedRecord) Covers() []string              { return c.pull.Covers }
func (c cachedRecord) Credits() map[string]string    { return c.pull.Credits }
func (c cachedRecord) Notes() (string, error)        { return "", ErrNotImplemented }
func (c cachedRecord) RawPull() models.RawPull       { return c.pull }
