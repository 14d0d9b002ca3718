// Package app wires the platform: configuration, database, observability, the event store,
// the message bus, and every feature.
package app
