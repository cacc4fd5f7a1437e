// Package server hosts the site directory over HTTP for local preview.
package server

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errTraversal = errors.New("path escapes site root")

// Server serves files from a site root directory.
type Server struct {
	root string
}

// New creates a server rooted at the given site directory.
func New(root string) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open site root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site root %s is not a directory", abs)
	}

	return &Server{root: abs}, nil
}

// Root returns the absolute site root being served.
func (s *Server) Root() string {
	return s.root
}

// SetupRouter configures the Gin router that serves the site files.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Tag every response so requests can be matched to log lines.
	router.Use(func(c *gin.Context) {
		c.Header("X-Request-Id", uuid.New().String())
		c.Next()
	})

	// Add CORS middleware. Caching is disabled so edits to the site
	// show up on the next reload.
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.NoRoute(s.handleFile)

	return router
}

// ValidatePort checks that the port can be bound by a local listener.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", port)
	}
	return nil
}

// Run validates the port and serves until the listener fails.
func (s *Server) Run(port int) error {
	if err := ValidatePort(port); err != nil {
		return err
	}
	return s.SetupRouter().Run(fmt.Sprintf(":%d", port))
}

// handleFile serves the file the request path resolves to.
func (s *Server) handleFile(c *gin.Context) {
	name, err := s.resolve(c.Request.URL.Path)
	if err != nil {
		c.String(http.StatusForbidden, "403 Forbidden")
		return
	}

	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		c.String(http.StatusNotFound, "404 Not Found")
		return
	}

	data, err := os.ReadFile(name)
	if err != nil {
		c.String(http.StatusInternalServerError, "500 Internal Server Error")
		return
	}

	c.Data(http.StatusOK, contentType(name), data)
}

// resolve maps a request path to a file under the site root. Paths
// that climb outside the root are rejected.
func (s *Server) resolve(requestPath string) (string, error) {
	if requestPath == "" || requestPath == "/" {
		requestPath = "/index.html"
	}

	// Join cleans the combined path, so ".." segments in the request
	// resolve before the containment check.
	full := filepath.Join(s.root, requestPath)
	if full != s.root && !strings.HasPrefix(full, s.root+string(os.PathSeparator)) {
		return "", errTraversal
	}
	return full, nil
}

func contentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
