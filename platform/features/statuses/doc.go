// Package statuses keeps the bodies of notes, the short text posts of a site.
//
// It owns creating and editing content: the core attributes of new content are recorded
// in the same ContentCreated event that carries the markdown body.
package statuses
