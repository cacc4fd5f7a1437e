// Command fetch-audio pulls the Mixcloud and hearthis.at track lists
// for a user and merges anything new into the archive store.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/FlukieL/orangeterry/archive"
	"github.com/FlukieL/orangeterry/config"
	"github.com/FlukieL/orangeterry/hearthis"
	"github.com/FlukieL/orangeterry/mixcloud"
)

// enrichLimit caps how many track pages get loaded per run to fill
// missing titles and dates.
const enrichLimit = 10

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the optional YAML config file")
	archivePath := flag.String("archive", "", "Path to the archive JSON store (default from config)")
	user := flag.String("user", "", "Mixcloud and hearthis.at username (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *archivePath == "" {
		*archivePath = cfg.ArchivePath
	}
	mixcloudUser := cfg.MixcloudUser
	hearthisUser := cfg.HearthisUser
	if *user != "" {
		mixcloudUser = *user
		hearthisUser = *user
	}

	store, err := archive.NewStore(*archivePath)
	if err != nil {
		fatal(err)
	}
	if err := store.Lock(); err != nil {
		fatal(err)
	}
	defer store.Unlock()

	doc, err := store.Load()
	if err != nil {
		if !errors.Is(err, archive.ErrCorrupt) {
			fatal(err)
		}
		fmt.Fprintf(os.Stderr, "Error: %v, starting from an empty archive\n", err)
		doc = archive.NewDocument()
	}

	records, failures := fetchAudio(mixcloudUser, hearthisUser)

	added := doc.MergeAudio(records)
	if err := store.Save(doc); err != nil {
		fatal(err)
	}
	fmt.Printf("Added %d new tracks (%d audio records total)\n", added, len(doc.Audio))

	if len(records) == 0 && failures > 0 {
		fatal(errors.New("no tracks fetched from either platform"))
	}
}

// fetchAudio gathers records from both platforms, counting platforms
// that failed outright.
func fetchAudio(mixcloudUser, hearthisUser string) ([]archive.Record, int) {
	var records []archive.Record
	failures := 0

	fmt.Printf("Fetching Mixcloud profile for %s...\n", mixcloudUser)
	mc := mixcloud.NewClient()
	if user, err := mc.FetchUser(mixcloudUser); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to fetch Mixcloud user: %v\n", err)
		failures++
	} else {
		fmt.Printf("User found: %s\n", user.Name)
		casts, err := mc.FetchCloudcasts(mixcloudUser)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to fetch Mixcloud cloudcasts: %v\n", err)
			failures++
		} else {
			fmt.Printf("Found %d cloudcasts\n", len(casts))
			records = append(records, mixcloud.Records(casts)...)
		}
	}

	fmt.Printf("Fetching hearthis.at tracks for %s...\n", hearthisUser)
	tracks, err := fetchHearthis(hearthisUser)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to fetch hearthis.at tracks: %v\n", err)
		failures++
	} else {
		fmt.Printf("Found %d hearthis.at tracks\n", len(tracks))
		records = append(records, hearthis.Records(tracks)...)
	}

	return records, failures
}

// fetchHearthis combines the podcast feed with the profile scrape and
// fills per-track gaps from the track pages. Either source alone is
// enough; only both failing is an error.
func fetchHearthis(user string) ([]hearthis.Track, error) {
	client := hearthis.NewClient()

	feed, feedErr := client.FetchPodcast(user)
	scraped, scrapeErr := client.FetchTracks(user)
	if feedErr != nil && scrapeErr != nil {
		return nil, fmt.Errorf("podcast feed: %v; profile scrape: %v", feedErr, scrapeErr)
	}
	if feedErr != nil {
		fmt.Fprintf(os.Stderr, "Error: hearthis.at podcast feed unavailable: %v\n", feedErr)
	}
	if scrapeErr != nil {
		fmt.Fprintf(os.Stderr, "Error: hearthis.at profile scrape failed: %v\n", scrapeErr)
	}

	tracks := hearthis.MergeTracks(feed, scraped)
	loaded := 0
	for i := range tracks {
		if loaded >= enrichLimit {
			break
		}
		if tracks[i].Title != "" && tracks[i].Created != "" {
			continue
		}
		loaded++
		if err := client.FetchTrackDetails(&tracks[i]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read track page for %s: %v\n", tracks[i].Slug, err)
		}
	}
	return tracks, nil
}
