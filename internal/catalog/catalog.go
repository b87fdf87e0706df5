package catalog

import "github.com/getwindl/windl/internal/model"

// VersionData is one product line in the static catalog together with
// its releases.
type VersionData struct {
	Name     string
	PageType string
	Releases []ReleaseData
}

// ReleaseData is one build of a version together with its editions.
type ReleaseData struct {
	Name     string
	Editions []EditionData
}

// EditionData is one edition of a release. IDs holds the internal
// product-edition identifiers the vendor's SKU API is queried with; an
// edition with several identifiers fans out into that many funnel
// branches during language discovery.
type EditionData struct {
	Name string
	IDs  []int
}

// Catalog is the immutable lookup table of known product versions,
// releases and editions. It is built once at process start and involves
// no network access; all lookups use case-insensitive substring matching
// with first-match-wins semantics.
type Catalog struct {
	versions []VersionData
}

// New creates a Catalog from the given version table. Use Default for
// the built-in table.
func New(versions []VersionData) *Catalog {
	return &Catalog{versions: versions}
}

// Versions returns all known product versions in catalog order.
func (c *Catalog) Versions() []model.Version {
	out := make([]model.Version, len(c.versions))
	for i, v := range c.versions {
		out[i] = model.Version{Name: v.Name, PageType: v.PageType, Index: i}
	}
	return out
}

// FindVersion returns the first version whose name matches the query
// fragment. The second return value reports whether a match was found.
func (c *Catalog) FindVersion(query string) (*VersionData, bool) {
	for i := range c.versions {
		if model.MatchName(c.versions[i].Name, query) {
			return &c.versions[i], true
		}
	}
	return nil, false
}

// Releases returns the releases of the first version matching the query.
func (c *Catalog) Releases(version string) ([]model.Release, bool) {
	v, ok := c.FindVersion(version)
	if !ok {
		return nil, false
	}
	out := make([]model.Release, len(v.Releases))
	for i, r := range v.Releases {
		out[i] = model.Release{Name: r.Name, Index: i}
	}
	return out, true
}

// FindRelease returns the first release of version matching the release
// query fragment.
func (c *Catalog) FindRelease(version, release string) (*ReleaseData, bool) {
	v, ok := c.FindVersion(version)
	if !ok {
		return nil, false
	}
	for i := range v.Releases {
		if model.MatchName(v.Releases[i].Name, release) {
			return &v.Releases[i], true
		}
	}
	return nil, false
}

// Editions returns the editions of the first release matching the query
// chain.
func (c *Catalog) Editions(version, release string) ([]model.Edition, bool) {
	r, ok := c.FindRelease(version, release)
	if !ok {
		return nil, false
	}
	out := make([]model.Edition, len(r.Editions))
	for i, e := range r.Editions {
		out[i] = model.Edition{Name: e.Name, IDs: append([]int(nil), e.IDs...)}
	}
	return out, true
}

// FindEdition returns the first edition matching the edition query
// fragment under the matched version and release.
func (c *Catalog) FindEdition(version, release, edition string) (*EditionData, bool) {
	r, ok := c.FindRelease(version, release)
	if !ok {
		return nil, false
	}
	for i := range r.Editions {
		if model.MatchName(r.Editions[i].Name, edition) {
			return &r.Editions[i], true
		}
	}
	return nil, false
}
