package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// EstablishConnection connects the acting user's account at a provider.
// Establishing an existing connection again updates its name and details.
type EstablishConnection struct {
	messages.BaseCommand
	Provider    string  `validate:"required"`
	ProviderKey string  `validate:"required"`
	DisplayName string  `validate:"required"`
	Details     Details `validate:"-"`
}

func (*EstablishConnection) MessageType() string { return "EstablishConnection" }

func (c *EstablishConnection) AggregateID() identifier.ID { return c.ConnectionID() }

// ConnectionID is the id of the connection this command establishes.
func (c *EstablishConnection) ConnectionID() identifier.ID {
	return ConnectionIDFor(c.Provider, c.ProviderKey)
}

// RefreshConnection stores new provider details for a connection of the acting user.
type RefreshConnection struct {
	messages.BaseCommand
	ConnectionID identifier.ID `validate:"required"`
	Details      Details       `validate:"required"`
}

func (*RefreshConnection) MessageType() string { return "RefreshConnection" }

func (c *RefreshConnection) AggregateID() identifier.ID { return c.ConnectionID }

// DeleteConnection removes a connection of the acting user and all of its channels.
type DeleteConnection struct {
	messages.BaseCommand
	ConnectionID identifier.ID `validate:"required"`
}

func (*DeleteConnection) MessageType() string { return "DeleteConnection" }

func (c *DeleteConnection) AggregateID() identifier.ID { return c.ConnectionID }

// SaveChannel creates or replaces a channel of a connection of the acting user.
type SaveChannel struct {
	messages.BaseCommand
	ConnectionID identifier.ID `validate:"required"`
	ChannelKey   string        `validate:"required"`
	DisplayName  string        `validate:"required"`
	Details      Details       `validate:"-"`
}

func (*SaveChannel) MessageType() string { return "SaveChannel" }

func (c *SaveChannel) AggregateID() identifier.ID { return c.ChannelID() }

// ChannelID is the id of the channel this command saves.
func (c *SaveChannel) ChannelID() identifier.ID {
	return ChannelIDFor(c.ConnectionID, c.ChannelKey)
}

// DeleteChannel removes a channel of a connection of the acting user.
type DeleteChannel struct {
	messages.BaseCommand
	ChannelID identifier.ID `validate:"required"`
}

func (*DeleteChannel) MessageType() string { return "DeleteChannel" }

func (c *DeleteChannel) AggregateID() identifier.ID { return c.ChannelID }

// SetChannelSiteLink sets what a site may do with a channel.
// The acting user must own the channel's connection and administer the site.
type SetChannelSiteLink struct {
	messages.BaseCommand
	ChannelID identifier.ID `validate:"required"`
	SiteID    identifier.ID `validate:"required"`
	CanPush   bool
	CanPull   bool
}

func (*SetChannelSiteLink) MessageType() string { return "SetChannelSiteLink" }

func (c *SetChannelSiteLink) AggregateID() identifier.ID { return LinkIDFor(c.ChannelID, c.SiteID) }
