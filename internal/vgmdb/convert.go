package vgmdb

import (
	"errors"
	"time"

	"vgmhub/pkg/models"
)

// ErrNoTracks reports a record whose track listing is absent (not
// merely empty), which conversion cannot flatten.
var ErrNoTracks = errors.New("vgmdb: record has no track listing")

// catalogNumKey is the album-info label the catalog number lives under.
const catalogNumKey = "Catalog Number"

// ToEntry reshapes a record into the persisted catalog form.
//
// The track mapping flattens to one ordered list: discs in source
// document order, each entry tagged with its disc label and renumbered
// 0-based per disc. Sub-tracks stay attached to their parent entry.
// A missing catalog number degrades to the literal "Error" sentinel
// rather than failing; a zero yearListened defaults to the current
// calendar year. The cover quirk is deliberate: img takes the second
// gallery image, the first being the thumbnail-sized front scan.
func ToEntry(rec AlbumRecord, info models.Info, yearListened int) (models.Entry, error) {
	discs := rec.Tracks()
	if discs == nil {
		return models.Entry{}, ErrNoTracks
	}

	flat := make([]models.Track, 0)
	for _, disc := range discs {
		for i, entry := range disc.Tracks {
			flat = append(flat, models.Track{
				Disc:        disc.Disc,
				TrackNumber: i,
				Title:       entry.Title,
				Duration:    entry.Duration,
				Subtracks:   entry.Subtracks,
			})
		}
	}

	catalogNum := rec.AlbumInfo()[catalogNumKey]
	if catalogNum == "" {
		catalogNum = "Error"
	}

	img := ""
	if covers := rec.Covers(); len(covers) >= 2 {
		img = covers[1]
	}

	if yearListened == 0 {
		yearListened = time.Now().Year()
	}

	return models.Entry{
		Info:         info,
		YearListened: yearListened,
		CatalogNum:   catalogNum,
		Game:         rec.Game(),
		Img:          img,
		Tracks:       flat,
	}, nil
}
