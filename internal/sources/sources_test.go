package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFileAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "livechart.yaml")

	content := `
base_url: https://mirror.example.com/
headers:
  User-Agent: test-agent
  Referer: https://mirror.example.com/
timeout_seconds: 5
kinds:
  - key: Anime
    path: /tv/
    aliases: [TV]
  - key: movie
    name: Movies
    path: movies
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	profile, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}

	if profile.BaseURL != "https://mirror.example.com" {
		t.Fatalf("expected trimmed base url, got %q", profile.BaseURL)
	}
	if profile.Timeout() != 5*time.Second {
		t.Fatalf("expected 5s listing timeout, got %s", profile.Timeout())
	}
	if profile.DetailTimeout() != 20*time.Second {
		t.Fatalf("expected default detail timeout, got %s", profile.DetailTimeout())
	}
	if profile.Headers["User-Agent"] != "test-agent" {
		t.Fatalf("expected custom user agent, got %q", profile.Headers["User-Agent"])
	}
	if len(profile.Kinds) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(profile.Kinds))
	}
	anime := profile.Kinds[0]
	if anime.Key != "anime" || anime.Path != "tv" || anime.Name != "anime" || anime.Aliases[0] != "tv" {
		t.Fatalf("unexpected normalized kind: %+v", anime)
	}
}

func TestLoadFileMissingOrEmptyPathUsesDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		profile, err := LoadFile(path)
		if err != nil {
			t.Fatalf("load %q: %v", path, err)
		}
		if profile.BaseURL != DefaultBaseURL {
			t.Fatalf("expected default base url, got %q", profile.BaseURL)
		}
		if len(profile.Kinds) != 4 {
			t.Fatalf("expected 4 default kinds, got %d", len(profile.Kinds))
		}
	}
}

func TestLoadFileRejectsInvalidProfiles(t *testing.T) {
	tmpDir := t.TempDir()
	cases := map[string]string{
		"malformed.yaml":     "kinds: [unterminated",
		"relative-base.yaml": "base_url: livechart.me",
		"kind-no-path.yaml":  "kinds:\n  - key: anime\n",
		"negative.yaml":      "timeout_seconds: -1",
	}

	for name, content := range cases {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Fatalf("expected %s to fail", name)
		}
	}
}

func TestProfileURLsAndOverrides(t *testing.T) {
	profile := Default().WithBaseURL("http://127.0.0.1:8080/").WithTimeouts(3, 0)

	kinds := DefaultKinds()
	got := profile.ListingURL(kinds[1], "fall", 2024)
	if got != "http://127.0.0.1:8080/fall-2024/movies?ongoing=all" {
		t.Fatalf("unexpected listing url %q", got)
	}
	if detail := profile.DetailURL("11880"); detail != "http://127.0.0.1:8080/anime/11880" {
		t.Fatalf("unexpected detail url %q", detail)
	}
	if profile.TimeoutSeconds != 3 || profile.DetailTimeoutSeconds != DefaultDetailTimeoutSeconds {
		t.Fatalf("unexpected timeouts %d/%d", profile.TimeoutSeconds, profile.DetailTimeoutSeconds)
	}
	if unchanged := profile.WithBaseURL("  "); unchanged.BaseURL != profile.BaseURL {
		t.Fatalf("empty override changed base url to %q", unchanged.BaseURL)
	}
}

func TestRegistryResolvesKeysAndAliases(t *testing.T) {
	registry, err := NewRegistry(DefaultKinds())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	for name, want := range map[string]string{"anime": "anime", "TV": "anime", "movies": "movie", "ovas": "ova", "all": "all"} {
		kind, ok := registry.Get(name)
		if !ok {
			t.Fatalf("expected %q to resolve", name)
		}
		if kind.Key != want {
			t.Fatalf("expected %q to resolve to %q, got %q", name, want, kind.Key)
		}
	}
	if _, ok := registry.Get("manga"); ok {
		t.Fatalf("expected unknown kind to be rejected")
	}

	list := registry.List()
	if len(list) != 4 || list[0].Key != "all" || list[3].Key != "ova" {
		t.Fatalf("unexpected sorted list: %+v", list)
	}

	routes := strings.Join(registry.Routes(), ",")
	if routes != "all,anime,movie,ova,tv,movies,ovas" {
		t.Fatalf("unexpected routes %q", routes)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry, err := NewRegistry(DefaultKinds())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if err := registry.Register(Kind{Key: "anime", Path: "tv"}); err == nil {
		t.Fatalf("expected duplicate key to fail")
	}
	if err := registry.Register(Kind{Key: "special", Path: "specials", Aliases: []string{"movies"}}); err == nil {
		t.Fatalf("expected alias collision to fail")
	}
	if err := registry.Register(Kind{Key: "special", Path: "specials", Aliases: []string{" TV "}}); err == nil {
		t.Fatalf("expected alias collision to ignore case")
	}
	if err := registry.Register(Kind{Key: "special", Path: "specials", Aliases: []string{"sp", "SP"}}); err == nil {
		t.Fatalf("expected repeated alias to fail")
	}
	if _, ok := registry.Get("special"); ok {
		t.Fatalf("rejected kind must not be registered")
	}
	if err := registry.Register(Kind{Key: " "}); err == nil {
		t.Fatalf("expected empty key to fail")
	}
}
