// Package viewer writes a rendered task into a standalone Leaflet page and
// opens it in the system browser.
package viewer

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/soaring-tools/tskmap/internal/render"
)

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

type pageData struct {
	Title   string
	GeoJSON template.JS
}

// Options configures a Viewer.
type Options struct {
	// TempDir is where pages are written. Empty uses os.TempDir.
	TempDir string
	// OpenBrowser launches the page after writing it.
	OpenBrowser bool
	// Stdout receives the "Opening:" line. Nil uses os.Stdout.
	Stdout io.Writer
	Logger *slog.Logger
}

// Viewer writes task pages.
type Viewer struct {
	dir     string
	open    bool
	out     io.Writer
	logger  *slog.Logger
	openURL func(string) error
}

// New creates a Viewer.
func New(opts Options) *Viewer {
	v := &Viewer{
		dir:     opts.TempDir,
		open:    opts.OpenBrowser,
		out:     opts.Stdout,
		logger:  opts.Logger,
		openURL: browser.OpenURL,
	}
	if v.out == nil {
		v.out = os.Stdout
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	return v
}

// RenderPage writes the HTML page for c to w. Coordinates are always WGS84
// since Leaflet expects GeoJSON in degrees.
func RenderPage(w io.Writer, title string, c *render.Collection) error {
	var buf bytes.Buffer
	if err := c.Encode(&buf, render.WGS84, false); err != nil {
		return fmt.Errorf("encoding features: %w", err)
	}
	return pageTemplate.Execute(w, pageData{
		Title:   title,
		GeoJSON: template.JS(bytes.TrimSpace(buf.Bytes())),
	})
}

// Show writes c to a new task_*.html file and, if enabled, opens it. It
// returns the absolute path of the page, which is kept after return.
func (v *Viewer) Show(title string, c *render.Collection) (string, error) {
	f, err := os.CreateTemp(v.dir, "task_*.html")
	if err != nil {
		return "", fmt.Errorf("creating page: %w", err)
	}

	if err := RenderPage(f, title, c); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing page: %w", err)
	}

	path, err := filepath.Abs(f.Name())
	if err != nil {
		path = f.Name()
	}

	fmt.Fprintf(v.out, "Opening: %s\n", path)
	v.logger.Info("Wrote task page", "path", path, "features", len(c.Features))

	if !v.open {
		return path, nil
	}
	if err := v.openURL(FileURL(path)); err != nil {
		return path, fmt.Errorf("opening browser: %w", err)
	}
	return path, nil
}

// FileURL returns the file:// URL of an absolute path.
func FileURL(path string) string {
	return "file://" + filepath.ToSlash(path)
}
