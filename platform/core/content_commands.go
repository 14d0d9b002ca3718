package core

import (
	"time"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// CreateContent creates a draft note. The acting user becomes the author and must be an author on the site.
// ContentID is chosen by the caller, usually identifier.New(), so it can query the content afterwards.
type CreateContent struct {
	messages.BaseCommand
	ContentID        identifier.ID `validate:"required"`
	SiteID           identifier.ID `validate:"required"`
	Title            string
	Body             string `validate:"required"`
	PublishTimestamp *time.Time
}

func (*CreateContent) MessageType() string { return "CreateContent" }

func (c *CreateContent) AggregateID() identifier.ID { return c.ContentID }

// EditContent changes a piece of content. Only non-nil fields change.
// The acting user must be the author or an admin of the site.
type EditContent struct {
	messages.BaseCommand
	ContentID        identifier.ID `validate:"required"`
	Title            *string
	Body             *string `validate:"omitnil,min=1"`
	PublishTimestamp *time.Time
}

func (*EditContent) MessageType() string { return "EditContent" }

func (c *EditContent) AggregateID() identifier.ID { return c.ContentID }

// PublishContent makes a piece of content visible to everyone.
type PublishContent struct {
	messages.BaseCommand
	ContentID identifier.ID `validate:"required"`
}

func (*PublishContent) MessageType() string { return "PublishContent" }

func (c *PublishContent) AggregateID() identifier.ID { return c.ContentID }

// UnpublishContent turns a published piece of content back into a draft.
type UnpublishContent struct {
	messages.BaseCommand
	ContentID identifier.ID `validate:"required"`
}

func (*UnpublishContent) MessageType() string { return "UnpublishContent" }

func (c *UnpublishContent) AggregateID() identifier.ID { return c.ContentID }

// DeleteContent removes a piece of content.
type DeleteContent struct {
	messages.BaseCommand
	ContentID identifier.ID `validate:"required"`
}

func (*DeleteContent) MessageType() string { return "DeleteContent" }

func (c *DeleteContent) AggregateID() identifier.ID { return c.ContentID }

// CreateReblog creates a draft reblog of URL.
type CreateReblog struct {
	messages.BaseCommand
	ContentID identifier.ID `validate:"required"`
	SiteID    identifier.ID `validate:"required"`
	URL       string        `validate:"required,url"`
	Comment   string
	Info      *ReblogInfo
}

func (*CreateReblog) MessageType() string { return "CreateReblog" }

func (c *CreateReblog) AggregateID() identifier.ID { return c.ContentID }

// ChangeReblogComment replaces the comment of a reblog.
type ChangeReblogComment struct {
	messages.BaseCommand
	ContentID identifier.ID `validate:"required"`
	Comment   string
}

func (*ChangeReblogComment) MessageType() string { return "ChangeReblogComment" }

func (c *ChangeReblogComment) AggregateID() identifier.ID { return c.ContentID }

// UpdateReblogInfo replaces the URL and page information of a reblog.
type UpdateReblogInfo struct {
	messages.BaseCommand
	ContentID identifier.ID `validate:"required"`
	URL       string        `validate:"required,url"`
	Info      *ReblogInfo
}

func (*UpdateReblogInfo) MessageType() string { return "UpdateReblogInfo" }

func (c *UpdateReblogInfo) AggregateID() identifier.ID { return c.ContentID }

// EditContentExtension replaces the data of one extension of a piece of content.
type EditContentExtension struct {
	messages.BaseCommand
	ContentID identifier.ID  `validate:"required"`
	Extension string         `validate:"required"`
	Data      map[string]any `validate:"required"`
}

func (*EditContentExtension) MessageType() string { return "EditContentExtension" }

func (c *EditContentExtension) AggregateID() identifier.ID { return c.ContentID }

// AddExtensionListItems adds Items to the string list stored under Key in one extension of a piece of content.
// Items already in the list are skipped and the other keys of the extension are kept.
type AddExtensionListItems struct {
	messages.BaseCommand
	ContentID identifier.ID `validate:"required"`
	Extension string        `validate:"required"`
	Key       string        `validate:"required"`
	Items     []string      `validate:"required,min=1,dive,required"`
}

func (*AddExtensionListItems) MessageType() string { return "AddExtensionListItems" }

func (c *AddExtensionListItems) AggregateID() identifier.ID { return c.ContentID }
