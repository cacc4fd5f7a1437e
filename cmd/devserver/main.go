// Command devserver serves the site directory locally for preview.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/FlukieL/orangeterry/config"
	"github.com/FlukieL/orangeterry/server"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the optional YAML config file")
	root := flag.String("root", "", "Site directory to serve (default from config)")
	port := flag.Int("port", 0, "Port to listen on (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *root == "" {
		*root = cfg.SiteRoot
	}
	if *port == 0 {
		*port = cfg.Port
	}

	if err := server.ValidatePort(*port); err != nil {
		fatal(err)
	}

	srv, err := server.New(*root)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Serving %s at http://localhost:%d\n", srv.Root(), *port)
	if err := srv.Run(*port); err != nil {
		fatal(err)
	}
}
