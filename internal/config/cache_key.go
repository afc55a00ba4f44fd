package config

import "fmt"

// Query-key namespaces. The first segment of every cached key is one of these,
// so invalidating a namespace drops every list and detail entry under it.
const (
	NamespaceUsers                 = "users"
	NamespaceUser                  = "user"
	NamespaceRegistrations         = "registrations"
	NamespaceHackathons            = "hackathons"
	NamespaceEvents                = "events"
	NamespaceLocations             = "locations"
	NamespaceSponsors              = "sponsors"
	NamespaceOrganizers            = "organizers"
	NamespaceOrganizerApplications = "organizer-applications"
	NamespaceExtraCredit           = "extra-credit"
	NamespaceFlags                 = "flags"
	NamespaceAnalytics             = "analytics"
	cacheKeyPrefix                 = "q"
	invalidationChannel            = "admin:cache:invalidations"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// Prefix is prepended to every rendered query key stored in Redis.
func (r *CacheKeyStruct) Prefix() string {
	return cacheKeyPrefix
}

// InvalidationChannel returns the Redis PubSub channel carrying invalidated key prefixes.
func (r *CacheKeyStruct) InvalidationChannel() string {
	return invalidationChannel
}

// UsersActive returns the list segment for the users query ("all" when unfiltered).
func (r *CacheKeyStruct) UsersActive(active *bool) string {
	if active == nil {
		return "all"
	}
	return fmt.Sprintf("active=%t", *active)
}

// RegistrationsScope returns the list segment for registrations (all hackathons or current).
func (r *CacheKeyStruct) RegistrationsScope(all bool) string {
	if all {
		return "all"
	}
	return "current"
}

var CacheKey = NewCacheKeyStruct()
