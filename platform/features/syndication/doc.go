// Package syndication pushes newly published content to every channel linked to its site with push rights.
//
// Pushing happens asynchronously after the content is visible as published. The URLs the channels
// report back are recorded in the "syndication" extension of the content.
package syndication
