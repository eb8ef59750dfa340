// Package events carries result lifecycle notifications from the services
// to whoever listens: metrics, the Kafka publisher, tests.
//
// Services emit through EventEmitter and never learn which handlers are
// registered. InMemoryEventEmitter dispatches synchronously; wrap slow
// handlers in an AsyncHandler to keep them off the request path.
package events
