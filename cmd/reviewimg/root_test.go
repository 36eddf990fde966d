package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "reviewimg/pkg/errors"
)

var envVars = []string{
	"REVIEWIMG_INPUT",
	"REVIEWIMG_OUTPUT_DIR",
	"REVIEWIMG_CATEGORIES",
	"REVIEWIMG_USER_AGENT",
	"REVIEWIMG_REQUESTS_PER_MINUTE",
	"REVIEWIMG_LOG_LEVEL",
	"REVIEWIMG_LOG_FILE",
	"REVIEWIMG_METRICS_FILE",
}

// isolate clears reviewimg settings and moves into an empty directory
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg"))
	}))
	t.Cleanup(server.Close)
	return server
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootDownloadsReviewImages(t *testing.T) {
	dir := isolate(t)
	server := imageServer(t)

	input := writeFile(t, dir, "export.json", `{"Reviews": [
		{"reviewer": {"thumbnail": "`+server.URL+`/iap_75x75.1.jpg"}},
		{"reviewer": {}},
		{"product": {"image_url": "`+server.URL+`/il_75x75.2.jpg"}}
	]}`)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, input, outDir, "ignored-extra")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "reviews", "iap_640x640.1.jpg"))
	assert.NoDirExists(t, filepath.Join(outDir, "products"))
	assert.Contains(t, out, "Total reviews: 3")
	assert.Contains(t, out, "Downloaded:    1")
	assert.Contains(t, out, "Skipped:       2")
}

func TestRootDefaultPaths(t *testing.T) {
	dir := isolate(t)
	server := imageServer(t)
	writeFile(t, dir, "reviews.json", `{"Reviews": [{"reviewer": {"thumbnail": "`+server.URL+`/iusa_75x75.7.jpg"}}]}`)

	_, err := execute(t)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "downloads", "reviews", "iusa_400x400.7.jpg"))
}

func TestRootEnabledCategoriesFromEnv(t *testing.T) {
	dir := isolate(t)
	server := imageServer(t)
	t.Setenv("REVIEWIMG_CATEGORIES", "reviews,products,content")

	input := writeFile(t, dir, "export.json", `{"Reviews": [{
		"reviewer": {"thumbnail": "`+server.URL+`/iap_75x75.1.jpg"},
		"product":  {"image_url": "`+server.URL+`/il_75x75.2.jpg?version=3"},
		"content":  {"image_url": "`+server.URL+`/c/3.png"}
	}]}`)

	_, err := execute(t, input, filepath.Join(dir, "out"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "out", "reviews", "iap_640x640.1.jpg"))
	assert.FileExists(t, filepath.Join(dir, "out", "products", "il_570x456.2.jpg"))
	assert.FileExists(t, filepath.Join(dir, "out", "content", "3.png"))
}

func TestRootMissingInputIsNotFatal(t *testing.T) {
	dir := isolate(t)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, filepath.Join(dir, "missing.json"), outDir)
	assert.NoError(t, err)
	assert.NoDirExists(t, outDir)
	assert.Contains(t, out, "Failed to load")
	assert.Contains(t, out, "Skipping reviews:")
}

func TestRootSchemaErrorIsFatal(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "export.json", `{"reviews": []}`)

	_, err := execute(t, input, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeSchema, errs.TypeOf(err))
}

func TestRootUnwritableOutputIsFatal(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "export.json", `{"Reviews": []}`)
	blocker := writeFile(t, dir, "blocker", "x")

	_, err := execute(t, input, blocker)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeFilesystem, errs.TypeOf(err))
}

func TestRootWritesMetricsFile(t *testing.T) {
	dir := isolate(t)
	server := imageServer(t)
	metricsFile := filepath.Join(dir, "reviewimg.prom")
	t.Setenv("REVIEWIMG_METRICS_FILE", metricsFile)

	input := writeFile(t, dir, "export.json", `{"Reviews": [{"reviewer": {"thumbnail": "`+server.URL+`/iap_1x1.1.jpg"}}]}`)
	_, err := execute(t, input, filepath.Join(dir, "out"))
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `reviewimg_images_total{category="reviews",outcome="downloaded"} 1`)
}

func TestRootInvalidConfig(t *testing.T) {
	isolate(t)

	_, err := execute(t, "--log-level", "loud")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeConfig, errs.TypeOf(err))
}

func TestConfigShow(t *testing.T) {
	isolate(t)
	t.Setenv("REVIEWIMG_REQUESTS_PER_MINUTE", "12")

	out, err := execute(t, "config", "show", "shop.json", "/srv/images")
	require.NoError(t, err)

	assert.Contains(t, out, "path: shop.json")
	assert.Contains(t, out, "base_directory: /srv/images")
	assert.Contains(t, out, "requests_per_minute: 12")
	assert.Contains(t, out, "field: thumbnail")
}

func TestConfigValidate(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid (categories: [reviews])")

	t.Setenv("REVIEWIMG_CATEGORIES", "videos")
	_, err = execute(t, "config", "validate")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown categories: videos"))
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "reviewimg "+version)
}
