// Package channellinks keeps which sites may push content to and pull content from which channels.
//
// Linking needs two owners to agree: the acting user must own the channel's connection and
// administer the site. The channel rows themselves are owned by the channels feature and
// are fetched through the bus.
package channellinks
