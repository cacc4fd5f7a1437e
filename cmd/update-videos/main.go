// Command update-videos backfills titles and upload dates for the VK
// video records already in the archive store.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/FlukieL/orangeterry/archive"
	"github.com/FlukieL/orangeterry/backfill"
	"github.com/FlukieL/orangeterry/config"
	"github.com/FlukieL/orangeterry/vk"
)

// vkFetcher adapts the VK page client to the backfill service.
type vkFetcher struct {
	client *vk.Client
}

func (f vkFetcher) FetchVideoMetadata(url string) (backfill.Metadata, error) {
	meta, err := f.client.FetchVideoMetadata(url)
	if err != nil {
		return backfill.Metadata{}, err
	}
	return backfill.Metadata{Title: meta.Title, Created: meta.Created}, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the optional YAML config file")
	archivePath := flag.String("archive", "", "Path to the archive JSON store (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *archivePath == "" {
		*archivePath = cfg.ArchivePath
	}

	store, err := archive.NewStore(*archivePath)
	if err != nil {
		fatal(err)
	}
	if !store.Exists() {
		fatal(fmt.Errorf("archive %s does not exist, run fetch-videos first", store.Path()))
	}
	if err := store.Lock(); err != nil {
		fatal(err)
	}
	defer store.Unlock()

	doc, err := store.Load()
	if err != nil {
		fatal(err)
	}

	client, err := vk.NewClient()
	if err != nil {
		fatal(err)
	}

	service := backfill.New(vkFetcher{client: client})
	service.Logf = func(format string, v ...any) {
		fmt.Printf(format+"\n", v...)
	}

	result := service.Run(doc)

	if result.Changed() {
		if err := store.Save(doc); err != nil {
			fatal(err)
		}
	}

	fmt.Printf("Scanned %d videos: %d titles updated, %d dates updated, %d fetch failures, %d without metadata\n",
		result.Scanned, result.TitlesUpdated, result.DatesUpdated, result.FetchFailures, result.NoMetadata)
}
