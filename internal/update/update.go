// Package update checks GitHub releases for newer VibeGuard versions and
// replaces the running binary on request.
package update

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Slug is the GitHub repository releases are published under.
const Slug = "vibeguard/vibeguard"

const (
	cacheFileName = "update.json"
	checkInterval = 24 * time.Hour
)

type cache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

// latestRelease asks GitHub for the newest release tag. Tests replace it.
var latestRelease = func() (string, error) {
	rel, found, err := selfupdate.DetectLatest(Slug)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	return rel.Version.String(), nil
}

func configDir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "vibeguard")
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "vibeguard")
}

func loadCache() (cache, error) {
	var c cache
	dir := configDir()
	if dir == "" {
		return c, errors.New("no config dir")
	}
	b, err := os.ReadFile(filepath.Join(dir, cacheFileName))
	if err != nil {
		return c, err
	}
	_ = json.Unmarshal(b, &c)
	return c, nil
}

func saveCache(c cache) {
	dir := configDir()
	if dir == "" {
		return
	}
	_ = os.MkdirAll(dir, 0o755)
	b, _ := json.MarshalIndent(c, "", "  ")
	_ = os.WriteFile(filepath.Join(dir, cacheFileName), b, 0o644)
}

// Check returns (latest, isNewer, error). It uses a 24h cache and skips in CI.
func Check(current string, noNetwork bool) (string, bool, error) {
	if os.Getenv("CI") != "" || noNetwork {
		return "", false, nil
	}
	c, _ := loadCache()
	latest := c.Latest
	if time.Since(c.LastChecked) > checkInterval || latest == "" {
		if v, err := latestRelease(); err == nil && v != "" {
			latest = normalize(v)
			c.Latest = latest
			c.LastChecked = time.Now()
			saveCache(c)
		}
	}
	if latest == "" {
		return "", false, nil
	}
	return latest, Newer(latest, current), nil
}

// Newer reports whether version a is greater than b. Unparseable versions
// are never newer.
func Newer(a, b string) bool {
	av, err := semver.ParseTolerant(normalize(a))
	if err != nil {
		return false
	}
	bv, err := semver.ParseTolerant(normalize(b))
	if err != nil {
		return false
	}
	return av.GT(bv)
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "v")
}

// currentVersion parses v, falling back to 0.0.0 for dev builds.
func currentVersion(v string) semver.Version {
	if v == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v = info.Main.Version
		}
	}
	ver, err := semver.ParseTolerant(normalize(v))
	if err != nil {
		return semver.MustParse("0.0.0")
	}
	return ver
}

// SelfUpdate replaces the running binary with the latest release and
// returns the installed version.
func SelfUpdate(current string) (string, error) {
	ver := currentVersion(current)
	// go-github-selfupdate speaks the v3 semver API
	rel, err := selfupdate.UpdateSelf(semver3.MustParse(ver.String()), Slug)
	if err != nil {
		return "", err
	}
	return rel.Version.String(), nil
}
