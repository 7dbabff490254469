package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"vgmhub/pkg/models"
)

func samplePull() models.RawPull {
	return models.RawPull{
		Title:     "NieR:Automata Original Soundtrack",
		Game:      "NieR: Automata",
		AlbumInfo: map[string]string{"Catalog Number": "SQEX-10589~91"},
		Tracks: models.DiscTrackList{
			{Disc: "Disc 2", Tracks: []models.TrackEntry{{Title: "City Ruins", Duration: "5:46"}}},
			{Disc: "Disc 1", Tracks: []models.TrackEntry{{Title: "Significance", Duration: "1:41"}}},
		},
		Covers:  []string{"front.png", "back.png"},
		Credits: map[string]string{"Composer": "Keiichi Okabe"},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), false, time.Hour)
	ctx := context.Background()

	want := samplePull()
	if err := c.Write(ctx, "65091", want, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, ok := c.Read(ctx, "65091")
	if !ok {
		t.Fatal("Read missed a freshly written key")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed the pull:\n got  %+v\n want %+v", got, want)
	}
	// disc order is deliberately non-alphabetical in the sample
	if got.Tracks[0].Disc != "Disc 2" || got.Tracks[1].Disc != "Disc 1" {
		t.Errorf("disc order lost: %q, %q", got.Tracks[0].Disc, got.Tracks[1].Disc)
	}
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), false, time.Hour)

	if _, ok := c.Read(context.Background(), "no-such-album"); ok {
		t.Error("Read reported a hit for a key never written")
	}
}

func TestCacheTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), false, time.Hour)
	ctx := context.Background()

	if err := c.Write(ctx, "65091", samplePull(), 5*time.Minute); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if ttl := mr.TTL("game:65091"); ttl != 5*time.Minute {
		t.Errorf("stored TTL = %v, want 5m", ttl)
	}

	mr.FastForward(6 * time.Minute)
	if _, ok := c.Read(ctx, "65091"); ok {
		t.Error("Read hit an expired key")
	}
}

func TestCacheDefaultTTLApplied(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), false, 10*time.Minute)

	if err := c.Write(context.Background(), "65091", samplePull(), 0); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if ttl := mr.TTL("game:65091"); ttl != 10*time.Minute {
		t.Errorf("stored TTL = %v, want cache default 10m", ttl)
	}
}

func TestCacheDisabled(t *testing.T) {
	c := New("", true, 0)
	ctx := context.Background()

	if err := c.Write(ctx, "65091", samplePull(), 0); err != nil {
		t.Errorf("disabled Write returned %v", err)
	}
	if _, ok := c.Read(ctx, "65091"); ok {
		t.Error("disabled Read reported a hit")
	}
}

// A dead backend degrades reads to misses; writes fail with an error the
// caller can ignore. Neither panics.
func TestCacheBackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), false, time.Hour)
	mr.Close()

	ctx := context.Background()
	if _, ok := c.Read(ctx, "65091"); ok {
		t.Error("Read hit with the backend down")
	}
	if err := c.Write(ctx, "65091", samplePull(), 0); err == nil {
		t.Error("Write succeeded with the backend down")
	}
}
