// Package update tells whether a newer release of attsync is published.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mobsuccess-devops/github-actions-asana/internal/github"
)

// Repository publishing attsync releases
const Repository = "mobsuccess-devops/github-actions-asana"

// Release represents a GitHub release
type Release struct {
	TagName string `json:"tagName"`
}

// CheckForUpdate queries GitHub releases and returns latest if newer than current
func CheckForUpdate(ctx context.Context, run github.Runner, currentVersion, repo string) (*Release, error) {
	output, err := run(ctx, "release", "list",
		"--repo", repo,
		"--json", "tagName",
		"--exclude-drafts",
		"--exclude-pre-releases",
		"--limit", "1",
	)
	if err != nil {
		return nil, fmt.Errorf("gh release list failed: %w", err)
	}

	var releases []Release
	if err := json.Unmarshal(output, &releases); err != nil {
		return nil, fmt.Errorf("failed to parse releases: %w", err)
	}
	if len(releases) == 0 {
		return nil, nil
	}

	latest := &releases[0]
	currentVer := normalizeVersion(currentVersion)

	// "dev" version is always older than any release
	if currentVer == "dev" {
		return latest, nil
	}
	if newer(normalizeVersion(latest.TagName), currentVer) {
		return latest, nil
	}
	return nil, nil
}

// newer compares dotted numeric versions, falling back to string order for
// non-numeric parts
func newer(a, b string) bool {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var x, y string
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		if x == y {
			continue
		}
		var xi, yi int
		_, errX := fmt.Sscanf(x, "%d", &xi)
		_, errY := fmt.Sscanf(y, "%d", &yi)
		if errX == nil && errY == nil && xi != yi {
			return xi > yi
		}
		return x > y
	}
	return false
}

// normalizeVersion strips version prefixes for comparison
func normalizeVersion(v string) string {
	v = strings.TrimPrefix(v, "attsync/")
	v = strings.TrimPrefix(v, "v")
	return v
}

// VersionDisplay returns a formatted version string for display
func VersionDisplay(tag string) string {
	return normalizeVersion(tag)
}
