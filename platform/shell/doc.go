// Package shell connects the platform's messages to infrastructure: it maps events to and from
// the event store's storable form, writes every event of a stream family to the store, and
// wraps command handlers with validation and observability.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
