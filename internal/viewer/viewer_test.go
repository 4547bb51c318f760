package viewer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soaring-tools/tskmap/internal/render"
	"github.com/soaring-tools/tskmap/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collection(t *testing.T) *render.Collection {
	t.Helper()
	a, err := render.New(render.Options{})
	require.NoError(t, err)
	c, err := a.Assemble(context.Background(), &task.Task{
		Type: task.TypeRT,
		Points: []task.Point{
			{Type: task.Start, Waypoint: task.Waypoint{Name: "A"}, Zone: task.Cylinder{Radius: 500}},
			{Type: task.Finish, Waypoint: task.Waypoint{Name: "B", Location: task.Location{Longitude: 1}}, Zone: task.Line{Length: 1000}},
		},
	})
	require.NoError(t, err)
	return c
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, "Racing <task>", collection(t)))

	page := buf.String()
	assert.Contains(t, page, "<title>Racing &lt;task&gt;</title>")
	assert.Contains(t, page, "const data = {")
	assert.Contains(t, page, `"FeatureCollection"`)
	assert.Contains(t, page, `"course_line"`)
	assert.Contains(t, page, "leaflet.js")
}

func TestShow_WritesPageWithoutBrowser(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	v := New(Options{TempDir: dir, Stdout: &out})
	v.openURL = func(string) error {
		t.Fatal("browser must not be opened")
		return nil
	}

	path, err := v.Show("task", collection(t))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "task_"), base)
	assert.True(t, strings.HasSuffix(base, ".html"), base)
	assert.Equal(t, "Opening: "+path+"\n", out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FeatureCollection")
}

func TestShow_OpensFileURL(t *testing.T) {
	var opened string
	v := New(Options{TempDir: t.TempDir(), OpenBrowser: true, Stdout: &bytes.Buffer{}})
	v.openURL = func(u string) error {
		opened = u
		return nil
	}

	path, err := v.Show("task", collection(t))
	require.NoError(t, err)
	assert.Equal(t, FileURL(path), opened)
	assert.True(t, strings.HasPrefix(opened, "file://"))
}

func TestShow_BrowserError(t *testing.T) {
	v := New(Options{TempDir: t.TempDir(), OpenBrowser: true, Stdout: &bytes.Buffer{}})
	v.openURL = func(string) error { return errors.New("no display") }

	path, err := v.Show("task", collection(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
	// page is kept even when the browser fails
	assert.FileExists(t, path)
}

func TestShow_BadDir(t *testing.T) {
	v := New(Options{TempDir: filepath.Join(t.TempDir(), "missing"), Stdout: &bytes.Buffer{}})
	_, err := v.Show("task", collection(t))
	assert.Error(t, err)
}
