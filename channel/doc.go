// Package channel implements the command/response protocol between the
// bridge and the remote device agent.
//
// Three subjects multiplex one transport connection: commands out, responses
// in, notifications in. The protocol carries no correlation tokens. A
// response pairs with the most recently sent command by FIFO order, so a
// caller issues Send and Wait as one serialized unit; the bridge layer above
// holds the lock that enforces this.
//
// Responses and notifications are delivered on the transport's subscription
// goroutine. Responses land in a buffered inbox that Wait pops from;
// notifications go straight to the registered EventHandler. After Stop,
// inbound messages are dropped, which lets the owner tear down shared state
// without racing a late delivery; Start brings the channel back up,
// discarding anything buffered by the previous run.
package channel
