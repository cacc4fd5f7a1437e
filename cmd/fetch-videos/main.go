// Command fetch-videos discovers the uploads in a VK video playlist
// and merges anything new into the archive store. With VK_ACCESS_TOKEN
// set it uses the official API; otherwise it scrapes the playlist
// pages.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/FlukieL/orangeterry/archive"
	"github.com/FlukieL/orangeterry/config"
	"github.com/FlukieL/orangeterry/vk"
)

// enrichLimit caps how many video pages get loaded per run to fill
// missing titles and dates.
const enrichLimit = 10

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the optional YAML config file")
	archivePath := flag.String("archive", "", "Path to the archive JSON store (default from config)")
	playlistURL := flag.String("playlist", "", "VK playlist URL (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *archivePath == "" {
		*archivePath = cfg.ArchivePath
	}
	if *playlistURL == "" {
		*playlistURL = cfg.PlaylistURL
	}

	config.LoadDotEnv()

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

	videos := fetchVideos(*playlistURL)
	if len(videos) == 0 {
		fatal(errors.New("no videos found"))
	}

	enrich(videos)

	added := doc.MergeVideo(vk.Records(videos))
	if err := store.Save(doc); err != nil {
		fatal(err)
	}
	fmt.Printf("Added %d new videos (%d video records total)\n", added, len(doc.Video))
}

// fetchVideos tries the official API when a token is available and
// falls back to scraping the playlist pages.
func fetchVideos(playlistURL string) []vk.Video {
	if token := config.VKAccessToken(); token != "" {
		playlist, err := vk.ParsePlaylistURL(playlistURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Println("Fetching playlist through the VK API...")
			videos, err := vk.NewAPIClient(token).FetchPlaylistVideos(playlist)
			if err == nil {
				fmt.Printf("API returned %d videos\n", len(videos))
				return videos
			}
			fmt.Fprintf(os.Stderr, "Error: VK API fetch failed: %v, falling back to page scrape\n", err)
		}
	}

	client, err := vk.NewClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil
	}

	fmt.Printf("Scraping playlist pages for %s...\n", playlistURL)
	videos, err := client.FetchPlaylist(playlistURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to scrape playlist: %v\n", err)
		return nil
	}
	fmt.Printf("Found %d videos\n", len(videos))
	return videos
}

// enrich fills missing titles and dates by loading individual video
// pages, bounded so large playlists stay fast.
func enrich(videos []vk.Video) {
	client, err := vk.NewClient()
	if err != nil {
		return
	}

	loaded := 0
	for i := range videos {
		if loaded >= enrichLimit {
			break
		}
		if videos[i].Title != "" && videos[i].Created != "" {
			continue
		}
		loaded++

		meta, err := client.FetchVideoMetadata("https://vk.com/video" + videos[i].ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load video page for %s: %v\n", videos[i].ID, err)
			continue
		}
		if videos[i].Title == "" && meta.Title != "" {
			videos[i].Title = meta.Title
		}
		if videos[i].Created == "" && meta.Created != "" {
			videos[i].Created = meta.Created
		}
	}
}
