// Package events defines the events the dispatch pipeline emits on the event bus.
//
// Available event types:
//   - DecisionEvent: outcome of one pipeline run, approved, blocked or failed
package events
