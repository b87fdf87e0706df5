package msapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/getwindl/windl/internal/model"
)

// shellMarker identifies firmware-shell product lines in a version name.
// Those products are published as static release assets and never touch
// the vendor's SKU API.
const shellMarker = "uefi"

// shellDefaultArchs is reported when the release's metadata document
// cannot be read.
const shellDefaultArchs = "x64, ARM64, IA32"

var shellArchPattern = regexp.MustCompile(`<arch>([^<]+)</arch>`)

func isShellVersion(name string) bool {
	return strings.Contains(strings.ToLower(name), shellMarker)
}

// shellLanguages returns the single fixed language record for shell
// products. Shell images are language-neutral; the record keeps the
// funnel shape intact for callers.
func shellLanguages() []model.Language {
	return []model.Language{{Name: "en-us", DisplayName: "English (US)"}}
}

// shellArchitectures derives the shell download link by substituting the
// release tag and shell version into the release-asset template, and
// enriches the architecture list from the release's metadata document
// when it is reachable.
func (r *Resolver) shellArchitectures(ctx context.Context, version, release, edition string) ([]model.Architecture, error) {
	// Resolve the fragments to their canonical catalog names; the URL
	// template is built from those, not from whatever the caller typed.
	v, ok := r.cat.FindVersion(version)
	if !ok {
		return nil, &NotFoundError{Kind: "version", Query: version}
	}
	rel, ok := r.cat.FindRelease(version, release)
	if !ok {
		return nil, &NotFoundError{Kind: "release", Query: release}
	}
	ed, ok := r.cat.FindEdition(version, release, edition)
	if !ok {
		return nil, &NotFoundError{Kind: "edition", Query: edition}
	}

	tag := firstToken(rel.Name, "25H1")
	shellVersion := lastToken(v.Name, "2.2")

	variant := "DEBUG"
	if strings.Contains(strings.ToLower(ed.Name), "release") {
		variant = "RELEASE"
	}

	base := fmt.Sprintf("%s/%s", r.endpoints.ShellBase, tag)
	link := fmt.Sprintf("%s/UEFI-Shell-%s-%s-%s.iso", base, shellVersion, tag, variant)

	name := shellDefaultArchs
	if archs := r.fetchShellArchs(ctx, base); len(archs) > 0 {
		name = strings.Join(archs, ", ")
	}

	return []model.Architecture{{Name: name, URL: link}}, nil
}

// fetchShellArchs reads the <arch> list out of the release's companion
// Version.xml. Best-effort: any failure returns nil and the caller falls
// back to the default list.
func (r *Resolver) fetchShellArchs(ctx context.Context, base string) []string {
	body, status, err := r.client.GetString(ctx, base+"/Version.xml", nil)
	if err != nil || status != http.StatusOK {
		r.logger.Warn("could not fetch shell release metadata", "status", status, "err", err)
		return nil
	}

	matches := shellArchPattern.FindAllStringSubmatch(body, -1)
	archs := make([]string, 0, len(matches))
	for _, m := range matches {
		archs = append(archs, m[1])
	}
	return archs
}

func firstToken(s, fallback string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return fallback
}

func lastToken(s, fallback string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[len(fields)-1]
	}
	return fallback
}
