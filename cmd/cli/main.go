package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vgmhub/internal/cache"
	"vgmhub/internal/catalog"
	"vgmhub/internal/vgmdb"
	"vgmhub/pkg/database"
	"vgmhub/pkg/models"
	"vgmhub/pkg/utils"
)

var (
	flagNoCache     bool
	flagConvert     bool
	flagTTL         int
	flagRating      int
	flagDescription string
	flagYear        int
)

var rootCmd = &cobra.Command{
	Use:   "vgmhub",
	Short: "vgmhub — pull album metadata from vgmdb and manage the catalog",
}

var pullCmd = &cobra.Command{
	Use:   "pull <catalog>",
	Short: "Fetch an album page and print the extracted record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runPull,
}

var addCmd = &cobra.Command{
	Use:   "add <catalog>",
	Short: "Fetch an album, convert it and store it in the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	pullCmd.Flags().BoolVar(&flagNoCache, "nocache", false, "Bypass the pull cache")
	pullCmd.Flags().BoolVar(&flagConvert, "convert", false, "Print the catalog-entry projection instead of the raw pull")
	pullCmd.Flags().IntVar(&flagTTL, "ttl", 0, "Cache TTL override in minutes")
	rootCmd.AddCommand(pullCmd)

	addCmd.Flags().IntVar(&flagRating, "rating", 0, "Personal rating to store")
	addCmd.Flags().StringVar(&flagDescription, "description", "", "Description to store")
	addCmd.Flags().IntVar(&flagYear, "year", 0, "Listening year (default: current year)")
	rootCmd.AddCommand(addCmd)
}

func newService(cfg utils.Config) *vgmdb.Service {
	fetcher := vgmdb.NewFetcher(cfg.VGMDBBaseURL, cfg.FetchTimeout)
	pullCache := cache.New(cfg.RedisAddr, cfg.CacheDisabled, cfg.CacheTTL)
	return vgmdb.NewService(fetcher, pullCache)
}

func runPull(cmd *cobra.Command, args []string) error {
	cfg := utils.LoadConfig()
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	opts := vgmdb.LoadOptions{NoCache: flagNoCache}
	if flagTTL > 0 {
		opts.TTL = time.Duration(flagTTL) * time.Minute
	}

	rec, _ := newService(cfg).Load(ctx, args[0], opts)

	var payload any = rec.RawPull()
	if flagConvert {
		entry, err := vgmdb.ToEntry(rec, models.Info{}, 0)
		if err != nil {
			return fmt.Errorf("convert %s: %w", args[0], err)
		}
		payload = entry
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg := utils.LoadConfig()
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	rec, _ := newService(cfg).Load(ctx, args[0], vgmdb.LoadOptions{})

	info := models.Info{Rating: flagRating, Description: flagDescription}
	if info.Description == "" {
		info.Description = "No Description"
	}

	entry, err := vgmdb.ToEntry(rec, info, flagYear)
	if err != nil {
		return fmt.Errorf("convert %s: %w", args[0], err)
	}

	db, err := database.Open(database.DefaultConfig())
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	if err := catalog.NewRepo(db).Add(ctx, entry); err != nil {
		return fmt.Errorf("save %q: %w", entry.Game, err)
	}

	fmt.Printf("added %q (%s), %d tracks\n", entry.Game, entry.CatalogNum, len(entry.Tracks))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
