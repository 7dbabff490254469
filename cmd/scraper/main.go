package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"vgmhub/internal/cache"
	"vgmhub/internal/catalog"
	"vgmhub/internal/vgmdb"
	"vgmhub/pkg/database"
	"vgmhub/pkg/models"
	"vgmhub/pkg/utils"
)

// One-shot pull-and-persist: fetch an album page, convert it and write
// the catalog entry, printing the result as JSON.
func main() {
	catalogID := flag.String("catalog", "", "vgmdb album identifier (required)")
	rating := flag.Int("rating", 0, "personal rating to store")
	description := flag.String("description", "", "description to store")
	dryRun := flag.Bool("dry-run", false, "print the entry without persisting it")
	flag.Parse()

	if *catalogID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := utils.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher := vgmdb.NewFetcher(cfg.VGMDBBaseURL, cfg.FetchTimeout)
	pullCache := cache.New(cfg.RedisAddr, cfg.CacheDisabled, cfg.CacheTTL)
	svc := vgmdb.NewService(fetcher, pullCache)

	rec, cached := svc.Load(ctx, *catalogID, vgmdb.LoadOptions{})
	if cached {
		log.Infof("album %s served from cache", *catalogID)
	}

	entry, err := vgmdb.ToEntry(rec, models.Info{Rating: *rating, Description: *description}, 0)
	if err != nil {
		log.Fatalf("convert failed: %v", err)
	}

	if !*dryRun {
		db := database.MustOpen(database.DefaultConfig())
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		if err := catalog.NewRepo(db).Add(ctx, entry); err != nil {
			log.Fatalf("save failed: %v", err)
		}
		log.Infof("saved %q (%s)", entry.Game, entry.CatalogNum)
	}

	out, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		log.Fatalf("encode entry: %v", err)
	}
	fmt.Println(string(out))
}
