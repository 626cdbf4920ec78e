package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/streamstack/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestCLICacheDirFromConfig(t *testing.T) {
	c := &CLI{config: config.Config{Cache: config.Cache{Dir: "/srv/streamstack"}}}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/streamstack" {
		t.Errorf("cacheDir() = %q, want the configured directory", dir)
	}
}
