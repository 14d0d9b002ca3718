package core

import "github.com/AntonStoeckl/content-eventbus-go/identifier"

// DefaultPageSize is used by ContentList when PageSize is not positive.
const DefaultPageSize = 30

// ContentCoreByID asks for the shared attributes of one piece of content. The result is nil if there is none.
type ContentCoreByID struct {
	ContentID identifier.ID

	result *ContentCore
}

func (*ContentCoreByID) MessageType() string { return "ContentCoreByID" }

func (q *ContentCoreByID) SetResults(core *ContentCore) { q.result = core }

func (q *ContentCoreByID) Results() *ContentCore { return q.result }

// ContentVisibleToUser asks whether a user may see a piece of content.
// Published content is visible to everyone, drafts to their author and the site's admins.
// A zero UserID stands for an anonymous visitor.
type ContentVisibleToUser struct {
	ContentID identifier.ID
	UserID    identifier.ID

	result bool
}

func (*ContentVisibleToUser) MessageType() string { return "ContentVisibleToUser" }

func (q *ContentVisibleToUser) SetResults(visible bool) { q.result = visible }

func (q *ContentVisibleToUser) Results() bool { return q.result }

// UserCanEditContent asks whether a user is the author of a piece of content or an admin of its site.
// Unknown content is not editable.
type UserCanEditContent struct {
	ContentID identifier.ID
	UserID    identifier.ID

	result bool
}

func (*UserCanEditContent) MessageType() string { return "UserCanEditContent" }

func (q *UserCanEditContent) SetResults(allowed bool) { q.result = allowed }

func (q *UserCanEditContent) Results() bool { return q.result }

// ContentList asks for one page of a site's content, newest publish timestamp first.
//
// Site admins see everything, other users see their own content and published content.
// Types and Visibility, when not empty, restrict the result. Page starts at 1.
type ContentList struct {
	SiteID     identifier.ID
	UserID     identifier.ID
	Types      []ContentType
	Visibility []Visibility
	Page       int
	PageSize   int

	results []ContentCore
}

func (*ContentList) MessageType() string { return "ContentList" }

func (q *ContentList) SetResults(items []ContentCore) { q.results = items }

func (q *ContentList) Results() []ContentCore { return nonNil(q.results) }

// Limit is the effective page size.
func (q *ContentList) Limit() uint {
	if q.PageSize <= 0 {
		return DefaultPageSize
	}

	return uint(q.PageSize)
}

// Offset is the number of items before the requested page.
func (q *ContentList) Offset() uint {
	if q.Page <= 1 {
		return 0
	}

	return uint(q.Page-1) * q.Limit()
}

// BuildContent is the builder query assembling a Content. Every projection holding a part of
// the content contributes it through the Builder. Use FetchContent to run it.
type BuildContent struct {
	ContentID identifier.ID

	builder *ContentBuilder
}

// NewBuildContent returns a BuildContent query with an empty builder.
func NewBuildContent(contentID identifier.ID) *BuildContent {
	return &BuildContent{ContentID: contentID, builder: NewContentBuilder(contentID)}
}

func (*BuildContent) MessageType() string { return "BuildContent" }

// Builder returns the builder contributors write to.
func (q *BuildContent) Builder() *ContentBuilder {
	if q.builder == nil {
		q.builder = NewContentBuilder(q.ContentID)
	}

	return q.builder
}
