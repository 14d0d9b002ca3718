// Package standardcontent keeps the attributes every piece of content shares: type, site,
// author, title, permalink, publish timestamp, and visibility.
//
// It contributes the core attributes to the content builder, answers the visibility and listing
// queries, and handles publishing, unpublishing, and deleting content of any type.
// Visibility changes are applied in the ContentBuild layer ahead of every other content build
// listener, so they see the new visibility.
package standardcontent
