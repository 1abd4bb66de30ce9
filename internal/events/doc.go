// Package events carries domain events from the services that raise them to
// the components that react to them, without the raising side knowing who
// listens.
//
// The primary components are:
// - Event: a typed, JSON-encoded notification that something happened
// - EventHandler: implemented by listeners
// - EventEmitter: implemented by dispatchers; InMemoryEventEmitter routes by event type
package events
