// Package connections keeps the accounts users connected at external providers.
//
// It projects the connector stream's connection events into the connections read model,
// answers the connection queries, and handles the commands that establish, refresh, and
// delete connections. A connection belongs to the user who established it; only that user
// may refresh or delete it.
package connections
