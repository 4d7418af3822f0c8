// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

// Package models defines the domain records shared across Reelfeed components
// and the standardized API response envelope.
package models

// CreatorRole classifies how a creator relates to a title or search result.
type CreatorRole string

// Creator roles. Metadata departments map onto these two values: the
// directing department becomes RoleDirector, everything else kept becomes
// RoleActor.
const (
	RoleActor    CreatorRole = "actor"
	RoleDirector CreatorRole = "director"
)

// CreatorSummary is a single creator search result.
//
// Only creators with a profile image and an acting or directing known-for
// department survive the search filter, so every summary carries a usable
// ProfileURL.
type CreatorSummary struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Role       CreatorRole `json:"role"`
	ProfileURL string      `json:"profile_url"`
}

// CandidateTitle is one movie from a creator's filmography, before
// availability resolution. ReleaseDate is the provider's YYYY-MM-DD string
// and may be empty for unreleased or undated titles.
type CandidateTitle struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// Filmography is a creator's movie credits split by contribution kind.
// Cast holds every acting credit; Directed holds crew credits whose job is
// exactly "Director" (producers, writers and other crew are excluded).
type Filmography struct {
	CreatorName string
	Cast        []CandidateTitle
	Directed    []CandidateTitle
}

// CreatorContribution records why a title is in a user's feed: one favorite
// (or co-contributing) creator and the role they played on the title.
//
// CreatorID is the stringified metadata-provider person id, matching the
// format favorites are stored under.
type CreatorContribution struct {
	CreatorID  string      `json:"id"`
	Name       string      `json:"name"`
	Role       CreatorRole `json:"role"`
	IsFavorite bool        `json:"is_favorite"`
}

// OfferType classifies a streaming offer.
type OfferType string

// Offer types as normalized from the availability provider. Only
// OfferSubscription offers ever surface in a feed; rent and buy offers are
// carried through the cache but filtered at assembly.
const (
	OfferSubscription OfferType = "subscription"
	OfferRent         OfferType = "rent"
	OfferBuy          OfferType = "buy"
)

// AvailabilityRecord is one streaming offer for a title in one country,
// normalized from either wire shape the availability provider emits.
type AvailabilityRecord struct {
	ServiceID string    `json:"service_id"`
	Name      string    `json:"service_name"`
	Link      string    `json:"link"`
	Type      OfferType `json:"offer_type"`
}

// Recommendation is one feed entry: a title the user has not watched, from
// at least one favorite creator, streamable on at least one subscribed
// platform.
//
// ID doubles as the pagination cursor. Creators lists ALL contributing
// creators known for the title, favorites flagged via IsFavorite. Platforms
// holds the user's subscribed platform slugs the title is streamable on,
// deduplicated.
//
// Example:
//
//	{
//	  "id": "550",
//	  "external_id": 550,
//	  "media_type": "movie",
//	  "title": "Fight Club",
//	  "year": 1999,
//	  "poster_url": "https://image.tmdb.org/t/p/w500/abc.jpg",
//	  "creators": [{"id": "287", "name": "Brad Pitt", "role": "actor", "is_favorite": true}],
//	  "platforms": ["netflix"]
//	}
type Recommendation struct {
	ID         string                `json:"id"`
	ExternalID int64                 `json:"external_id"`
	MediaType  string                `json:"media_type"`
	Title      string                `json:"title"`
	Year       int                   `json:"year,omitempty"`
	PosterURL  string                `json:"poster_url,omitempty"`
	Creators   []CreatorContribution `json:"creators"`
	Platforms  []string              `json:"platforms"`
}

// SetPlatformsRequest is the request body for replacing a user's platform
// subscriptions.
type SetPlatformsRequest struct {
	Platforms []string `json:"platforms" validate:"required,dive,min=1,max=64"`
}
