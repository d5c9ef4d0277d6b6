package models

import "time"

// SiteStatusKey is the fixed document key for the settings singleton.
// A well-known key keeps concurrent first-reads from minting duplicates.
const SiteStatusKey = "site_status"

type SiteStatus struct {
	ID                       string    `bson:"_id" json:"id"`
	UnderConstruction        bool      `bson:"under_construction" json:"underConstruction"`
	GalleryEnabled           bool      `bson:"gallery_enabled" json:"galleryEnabled"`
	MusicWishlistEnabled     bool      `bson:"music_wishlist_enabled" json:"musicWishlistEnabled"`
	StoriesEnabled           bool      `bson:"stories_enabled" json:"storiesEnabled"`
	ChallengesEnabled        bool      `bson:"challenges_enabled" json:"challengesEnabled"`
	TabsLockedUntilCountdown bool      `bson:"tabs_locked_until_countdown" json:"tabsLockedUntilCountdown"`
	AdminOverrideTabLock     bool      `bson:"admin_override_tab_lock" json:"adminOverrideTabLock"`
	LastUpdated              time.Time `bson:"last_updated" json:"lastUpdated"`
	UpdatedBy                string    `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
}

// DefaultSiteStatus is what the lazy first-read migration creates:
// site live, every feature enabled.
func DefaultSiteStatus(now time.Time) SiteStatus {
	return SiteStatus{
		ID:                   SiteStatusKey,
		UnderConstruction:    false,
		GalleryEnabled:       true,
		MusicWishlistEnabled: true,
		StoriesEnabled:       true,
		ChallengesEnabled:    true,
		LastUpdated:          now,
	}
}
