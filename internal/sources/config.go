package sources

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL              = "https://www.livechart.me"
	DefaultTimeoutSeconds       = 10
	DefaultDetailTimeoutSeconds = 20
)

// Kind is one listing category on the source site.
type Kind struct {
	Key     string   `yaml:"key" json:"key"`
	Name    string   `yaml:"name" json:"name"`
	Path    string   `yaml:"path" json:"path"`
	Aliases []string `yaml:"aliases" json:"aliases,omitempty"`
}

// Profile describes how to reach the source site.
type Profile struct {
	BaseURL              string            `yaml:"base_url"`
	Headers              map[string]string `yaml:"headers"`
	TimeoutSeconds       int               `yaml:"timeout_seconds"`
	DetailTimeoutSeconds int               `yaml:"detail_timeout_seconds"`
	Kinds                []Kind            `yaml:"kinds"`
}

func DefaultKinds() []Kind {
	return []Kind{
		{Key: "anime", Name: "Anime", Path: "tv", Aliases: []string{"tv"}},
		{Key: "movie", Name: "Movies", Path: "movies", Aliases: []string{"movies"}},
		{Key: "ova", Name: "OVAs", Path: "ovas", Aliases: []string{"ovas"}},
		{Key: "all", Name: "All", Path: "all"},
	}
}

func Default() Profile {
	profile := Profile{}
	// defaults never fail validation
	_ = profile.normalizeAndValidate()
	return profile
}

// LoadFile reads a YAML profile. An empty path or a missing file yields the
// built-in profile; a malformed file is an error.
func LoadFile(path string) (Profile, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Profile{}, fmt.Errorf("read source profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(content, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse source profile %s: %w", trimmed, err)
	}
	if err := profile.normalizeAndValidate(); err != nil {
		return Profile{}, fmt.Errorf("source profile %s: %w", trimmed, err)
	}
	return profile, nil
}

func (p *Profile) normalizeAndValidate() error {
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	if p.BaseURL == "" {
		p.BaseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(p.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL, got %q", p.BaseURL)
	}

	if p.TimeoutSeconds < 0 || p.DetailTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if p.TimeoutSeconds == 0 {
		p.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if p.DetailTimeoutSeconds == 0 {
		p.DetailTimeoutSeconds = DefaultDetailTimeoutSeconds
	}

	if p.Headers == nil {
		p.Headers = map[string]string{}
	}

	if len(p.Kinds) == 0 {
		p.Kinds = DefaultKinds()
	}
	for index := range p.Kinds {
		kind := &p.Kinds[index]
		kind.Key = strings.ToLower(strings.TrimSpace(kind.Key))
		kind.Name = strings.TrimSpace(kind.Name)
		kind.Path = strings.Trim(strings.TrimSpace(kind.Path), "/")
		if kind.Key == "" {
			return fmt.Errorf("kinds[%d].key is required", index)
		}
		if kind.Path == "" {
			return fmt.Errorf("kinds[%d].path is required", index)
		}
		if kind.Name == "" {
			kind.Name = kind.Key
		}
		for aliasIndex, alias := range kind.Aliases {
			kind.Aliases[aliasIndex] = strings.ToLower(strings.TrimSpace(alias))
		}
	}

	return nil
}

// WithBaseURL returns a copy of the profile pointing at another host. An
// empty value leaves the profile unchanged.
func (p Profile) WithBaseURL(baseURL string) Profile {
	if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
		p.BaseURL = trimmed
	}
	return p
}

// WithTimeouts overrides the listing and detail timeouts; zero keeps the current value.
func (p Profile) WithTimeouts(listingSeconds int, detailSeconds int) Profile {
	if listingSeconds > 0 {
		p.TimeoutSeconds = listingSeconds
	}
	if detailSeconds > 0 {
		p.DetailTimeoutSeconds = detailSeconds
	}
	return p
}

func (p Profile) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func (p Profile) DetailTimeout() time.Duration {
	return time.Duration(p.DetailTimeoutSeconds) * time.Second
}

// ListingURL builds <base>/<season>-<year>/<path>?ongoing=all.
func (p Profile) ListingURL(kind Kind, season string, year int) string {
	return fmt.Sprintf("%s/%s-%d/%s?ongoing=all", p.BaseURL, season, year, kind.Path)
}

func (p Profile) DetailURL(id string) string {
	return p.BaseURL + "/anime/" + url.PathEscape(id)
}
