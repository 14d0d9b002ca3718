// Package messagebus routes commands, events, and queries to the listeners registered for them.
//
// Every listener declares one Layer and a signed priority. For an event, the bus runs the layers in their
// fixed global order (LayerEventStore, LayerExecution, LayerContentBuild), and within a layer the listeners
// run by ascending priority, ties broken by registration order.
//
// Command dispatch is recursive: Dispatch runs the single command handler and then publishes each produced
// event through all layers before returning, so a caller can query a projection right after a command.
//
// Listener failures are isolated. All listeners of a cascade still run and the failures are returned together
// as a *DispatchError. The one exception is the EventStore layer: if an event could not be recorded,
// no later layer runs for it.
//
// Events about the same aggregate are serialized by a per-aggregate lock. The lock is re-entrant through the
// context, so a listener may publish or dispatch further messages about the aggregate it is handling.
package messagebus
