// Package reblogs keeps the bodies of reblogs: a link to a page elsewhere, what is known about
// that page, and an optional comment.
package reblogs
