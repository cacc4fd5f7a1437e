// Command gen-favicon renders the favicon set from the site's source
// artwork.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/FlukieL/orangeterry/config"
	"github.com/FlukieL/orangeterry/imaging"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the optional YAML config file")
	source := flag.String("source", "", "Source artwork to render from (default from config)")
	out := flag.String("out", "", "Directory to write the icons into (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *source == "" {
		*source = cfg.Images.FaviconSource
	}
	if *out == "" {
		*out = cfg.Images.FaviconDir
	}

	img, err := imaging.LoadImage(*source)
	if err != nil {
		fatal(err)
	}

	written, err := imaging.GenerateFavicons(img, *out)
	for _, path := range written {
		fmt.Printf("Generated %s\n", path)
	}
	if err != nil {
		if len(written) == 0 {
			fatal(err)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
