// Package channels keeps the channels reachable through connections: the blogs, feeds, and
// pages a connected account can publish to or read from.
//
// A channel's id is derived from its connection and its provider-side key, so saving the same
// channel again replaces it. Deleting a connection removes its channels from the read model.
package channels
