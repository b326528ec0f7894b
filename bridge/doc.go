// Package bridge is the public surface of the client: synchronous CRUD and
// statistics operations against a remote OTN linecard agent, plus the
// dispatcher that delivers the agent's asynchronous notifications.
//
// Every operation encodes its arguments as one keyed command, sends it over
// the channel and blocks for the single correlated response. The channel
// carries no correlation tokens, so the bridge serializes concurrent
// callers with one mutex around the whole send+wait round trip. The
// dispatcher's metadata-processing step shares that mutex; user-facing
// callbacks run outside it on the delivery goroutine.
//
// Lifecycle is Uninitialized -> Initialized -> Uninitialized. Teardown
// stops inbound delivery strictly before identifier and session state is
// cleared, so a late notification can never observe freed state.
package bridge
