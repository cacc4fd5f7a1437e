// Command gen-logo renders the responsive logo set, PNG plus WebP at
// each display density, from the site's logo artwork.
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
	out := flag.String("out", "", "Directory to write the logos into (default from config)")
	name := flag.String("name", "", "Base name for outputs (default derived from the source file)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *source == "" {
		*source = cfg.Images.LogoSource
	}
	if *out == "" {
		*out = cfg.Images.LogoDir
	}
	if *name == "" {
		*name = imaging.BaseName(*source)
	}

	img, err := imaging.LoadImage(*source)
	if err != nil {
		fatal(err)
	}

	written, err := imaging.GenerateLogos(img, *name, *out, func(err error) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	})
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
