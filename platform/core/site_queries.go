package core

import "github.com/AntonStoeckl/content-eventbus-go/identifier"

// UserHasPermissionForSite asks whether a user may act on a site at the required level.
// Without requirements any user with a permission row other than PermissionNone passes.
type UserHasPermissionForSite struct {
	SiteID       identifier.ID
	UserID       identifier.ID
	MustBeAdmin  bool
	MustBeAuthor bool

	result bool
}

func (*UserHasPermissionForSite) MessageType() string { return "UserHasPermissionForSite" }

func (q *UserHasPermissionForSite) SetResults(allowed bool) { q.result = allowed }

func (q *UserHasPermissionForSite) Results() bool { return q.result }

// FollowersForSite asks for all followers of a site.
type FollowersForSite struct {
	SiteID identifier.ID

	results []Follower
}

func (*FollowersForSite) MessageType() string { return "FollowersForSite" }

func (q *FollowersForSite) SetResults(followers []Follower) { q.results = followers }

func (q *FollowersForSite) Results() []Follower { return nonNil(q.results) }
