package vgmdb

import (
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"vgmhub/pkg/models"
)

// extractTracks walks the tracklist container: one heading label and
// one sub-table per disc. The page repeats the same labels once per
// language tab, so label collection stops at the first repeat and only
// that many sub-tables are consumed.
//
// Row policy, per sub-table row:
//   - >=3 text cells: full track row (title, duration)
//   - else, a non-whitespace 4th raw string node marks a title-only row
//   - else the row continues the previous track as a named sub-track
//
// A continuation before any track on the disc is a malformed listing;
// the whole field fails soft to an empty mapping.
func extractTracks(catalog string, doc *Document) models.DiscTrackList {
	out := models.DiscTrackList{}

	list, ok := doc.First("div#tracklist")
	if !ok {
		log.Errorf("[vgmdb] %s: tracklist not found", catalog)
		return out
	}

	var labels []string
	for _, b := range list.All("b") {
		label := strings.TrimSpace(b.Text())
		if slices.Contains(labels, label) {
			// repeats belong to the next language tab
			break
		}
		labels = append(labels, label)
	}

	tables := list.All("table")
	n := len(labels)
	if len(tables) < n {
		n = len(tables)
	}

	for i := 0; i < n; i++ {
		disc := models.DiscTracks{Disc: labels[i], Tracks: []models.TrackEntry{}}

		for _, row := range tables[i].All("tr") {
			cells := row.StrippedStrings()

			if len(cells) >= 3 {
				disc.Tracks = append(disc.Tracks, models.TrackEntry{
					Title:    cells[1],
					Duration: cells[2],
				})
				continue
			}
			if len(cells) < 2 {
				continue
			}

			raw := row.RawStrings()
			if len(raw) >= 4 && strings.TrimSpace(raw[3]) != "" {
				// a timed cell never materialized: title-only track
				disc.Tracks = append(disc.Tracks, models.TrackEntry{Title: cells[1]})
				continue
			}

			last := len(disc.Tracks) - 1
			if last < 0 {
				log.Errorf("[vgmdb] %s: sub-track before any track on disc %q", catalog, labels[i])
				return models.DiscTrackList{}
			}
			disc.Tracks[last].Subtracks = append(disc.Tracks[last].Subtracks, cells[1])
		}

		out = append(out, disc)
	}

	return out
}
