package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// SetSitePermissions sets the permission level of a user on a site.
type SetSitePermissions struct {
	messages.BaseCommand
	SiteID identifier.ID   `validate:"required"`
	UserID identifier.ID   `validate:"required"`
	Level  PermissionLevel `validate:"required,oneof=none author admin"`
}

func (*SetSitePermissions) MessageType() string { return "SetSitePermissions" }

func (c *SetSitePermissions) AggregateID() identifier.ID { return c.SiteID }

// AddFollower records a follower of a site.
type AddFollower struct {
	messages.BaseCommand
	SiteID      identifier.ID `validate:"required"`
	Provider    string        `validate:"required"`
	ProviderKey string        `validate:"required"`
	DisplayName string        `validate:"required"`
	Details     Details       `validate:"-"`
}

func (*AddFollower) MessageType() string { return "AddFollower" }

func (c *AddFollower) AggregateID() identifier.ID { return c.SiteID }

// RemoveFollower removes a follower from a site.
type RemoveFollower struct {
	messages.BaseCommand
	SiteID     identifier.ID `validate:"required"`
	FollowerID identifier.ID `validate:"required"`
}

func (*RemoveFollower) MessageType() string { return "RemoveFollower" }

func (c *RemoveFollower) AggregateID() identifier.ID { return c.SiteID }
