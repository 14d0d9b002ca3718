// Package extensions keeps named sets of data attached to content, such as tags or syndication links.
// Each extension of a piece of content is stored and replaced on its own.
package extensions
