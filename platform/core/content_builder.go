package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
)

// ContentBuilder collects the parts of one piece of content from several projections.
//
// Each part has exactly one writer: the core attributes, the body, and one entry per extension name.
// Writing a part twice fails with ErrFieldAlreadySet and keeps the first value.
type ContentBuilder struct {
	mu         sync.Mutex
	contentID  identifier.ID
	core       *ContentCore
	body       Body
	extensions map[string]Extension
}

// NewContentBuilder returns an empty builder for contentID.
func NewContentBuilder(contentID identifier.ID) *ContentBuilder {
	return &ContentBuilder{
		contentID:  contentID,
		extensions: make(map[string]Extension),
	}
}

// ContentID is the id of the content being built.
func (b *ContentBuilder) ContentID() identifier.ID {
	return b.contentID
}

// SetCore sets the shared attributes.
func (b *ContentBuilder) SetCore(core ContentCore) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.core != nil {
		return errors.Join(ErrFieldAlreadySet, errors.New("core"))
	}

	b.core = &core

	return nil
}

// SetBody sets the type-specific body.
func (b *ContentBuilder) SetBody(body Body) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.body != nil {
		return errors.Join(ErrFieldAlreadySet, errors.New("body"))
	}

	b.body = body

	return nil
}

// AddExtension adds one extension. Extensions with different names are independent parts.
func (b *ContentBuilder) AddExtension(ext Extension) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.extensions[ext.Name]; exists {
		return errors.Join(ErrFieldAlreadySet, fmt.Errorf("extension %q", ext.Name))
	}

	b.extensions[ext.Name] = ext

	return nil
}

// Build returns the assembled content.
// It fails with ErrContentNotFound unless both the core attributes and the body were set.
func (b *ContentBuilder) Build() (Content, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.core == nil || b.body == nil {
		return Content{}, errors.Join(ErrContentNotFound, fmt.Errorf("content %s", b.contentID))
	}

	extensions := make(map[string]Extension, len(b.extensions))
	for name, ext := range b.extensions {
		extensions[name] = ext
	}

	return Content{ContentCore: *b.core, Body: b.body, Extensions: extensions}, nil
}

// FetchContent runs the BuildContent query for contentID and builds the result.
func FetchContent(ctx context.Context, fetcher messagebus.Fetcher, contentID identifier.ID) (Content, error) {
	q := NewBuildContent(contentID)
	if err := fetcher.Fetch(ctx, q); err != nil {
		return Content{}, err
	}

	return q.Builder().Build()
}
