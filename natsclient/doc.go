// Package natsclient provides a NATS client with circuit breaker protection,
// automatic reconnection, and JetStream Key-Value support.
//
// The package wraps the standard NATS Go client with the reliability features
// the hardware bridge needs: a circuit breaker that fails fast after repeated
// connection failures, exponential backoff between attempts, and context
// propagation on blocking operations. It carries every message the bridge
// exchanges with the device agent, both the command/response channel and the
// asynchronous notification stream.
//
// # Circuit Breaker
//
// After a threshold of consecutive failures (default 5) the circuit opens and
// further attempts return ErrCircuitOpen immediately. The circuit is retested
// after a backoff interval that doubles up to a configurable maximum.
//
// # Key-Value Store
//
// KVStore is a high-level abstraction over JetStream KV providing CAS
// (Compare-And-Swap) retry logic via UpdateWithRetry and consistent error
// handling. The bridge uses it to persist identifier counters and hardware
// mappings so allocations survive a restart.
//
// # Basic Usage
//
//	client, err := natsclient.NewClient("nats://localhost:4222",
//		natsclient.WithName("lairedis-bridge"))
//	if err != nil {
//		return err
//	}
//	if err := client.Connect(ctx); err != nil {
//		return err
//	}
//	defer client.Close(ctx)
//
//	err = client.Publish(ctx, "otai.command", payload)
package natsclient
