// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package recommend

import "sort"

// serviceIDBySlug maps Reelfeed platform slugs (the identifiers users
// subscribe under) to the availability provider's service ids. The set is
// the platforms with meaningful catalogs in the served markets; it changes
// rarely and ships as code rather than configuration.
var serviceIDBySlug = map[string]string{
	"netflix":       "netflix",
	"hbo-max":       "hbomax",
	"disney-plus":   "disney",
	"prime-video":   "prime",
	"apple-tv-plus": "apple",
	"skyshowtime":   "skyshowtime",
	"canal-plus":    "canalplus",
	"player":        "player",
}

// slugByServiceID is the inverse mapping, for normalizing provider offers
// back to platform slugs.
var slugByServiceID = func() map[string]string {
	m := make(map[string]string, len(serviceIDBySlug))
	for slug, id := range serviceIDBySlug {
		m[id] = slug
	}
	return m
}()

// SlugForServiceID maps a provider service id to a platform slug. Offers
// from services outside the table are ignored by the assembler.
func SlugForServiceID(serviceID string) (string, bool) {
	slug, ok := slugByServiceID[serviceID]
	return slug, ok
}

// KnownPlatform reports whether slug is a platform Reelfeed can match
// availability against.
func KnownPlatform(slug string) bool {
	_, ok := serviceIDBySlug[slug]
	return ok
}

// KnownPlatforms returns all supported platform slugs, sorted.
func KnownPlatforms() []string {
	slugs := make([]string, 0, len(serviceIDBySlug))
	for slug := range serviceIDBySlug {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
