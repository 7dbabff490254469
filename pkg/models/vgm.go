package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawPull is the unconverted extraction output for one album page.
// Its shape mirrors the source site: album info keys are kept exactly
// as labeled, tracks are grouped per disc, credits are role -> names.
type RawPull struct {
	Title     string            `json:"Title"`
	Game      string            `json:"Game"`
	AlbumInfo map[string]string `json:"AlbumInfo"`
	Tracks    DiscTrackList     `json:"Tracks"`
	Covers    []string          `json:"Covers"`
	Credits   map[string]string `json:"Credits"`
}

// TrackEntry is one row of a disc's track list as the source renders it.
// Duration is empty for rows the site lists without a timing cell.
// Subtracks holds named movements nested under this timed entry.
type TrackEntry struct {
	Title     string   `json:"title"`
	Duration  string   `json:"duration,omitempty"`
	Subtracks []string `json:"subtracks,omitempty"`
}

// Track is the persisted, disc-tagged form of a TrackEntry. TrackNumber
// is 0-based and resets at each disc boundary.
type Track struct {
	Disc        string   `json:"disc"`
	TrackNumber int      `json:"track_number"`
	Title       string   `json:"title"`
	Duration    string   `json:"duration,omitempty"`
	Subtracks   []string `json:"subtracks,omitempty"`
}

// DiscTracks pairs a disc label with its track rows in source order.
type DiscTracks struct {
	Disc   string
	Tracks []TrackEntry
}

// DiscTrackList keeps discs in source-document order while still
// marshaling to the {"<disc label>": [tracks...]} object shape the API
// returns. Plain maps would lose disc order across a cache round-trip,
// which would break catalog conversion for cached records.
type DiscTrackList []DiscTracks

func (l DiscTrackList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.Disc)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(d.Tracks)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *DiscTrackList) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("tracks: expected object, got %v", tok)
	}

	out := DiscTrackList{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tracks: expected string key, got %v", keyTok)
		}
		var tracks []TrackEntry
		if err := dec.Decode(&tracks); err != nil {
			return fmt.Errorf("tracks for %q: %w", key, err)
		}
		out = append(out, DiscTracks{Disc: key, Tracks: tracks})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// Info carries the caller-supplied part of a catalog entry: personal
// rating, free-text description and any extra data to stash alongside.
type Info struct {
	Rating      int    `json:"rating"`
	Description string `json:"description,omitempty"`
	Extras      []any  `json:"extras,omitempty"`
}

// Entry is the persisted form of an album: a flattened, disc-tagged
// track list plus the catalog metadata the store keys on.
type Entry struct {
	Info
	YearListened int     `json:"year_listened"`
	CatalogNum   string  `json:"catalog_num"`
	Game         string  `json:"game"`
	Img          string  `json:"img,omitempty"`
	Tracks       []Track `json:"tracks"`
}
