// Package mqtt wraps paho.mqtt.golang for mirroring switch state to a
// broker.
//
// The wrapper is publish-only. Switchhook accepts commands exclusively
// over the authenticated webhook endpoint; the broker is a read-side
// mirror so dashboards and automations can observe switch state without
// polling HTTP.
//
// Connection management:
//   - Connect blocks until the initial connection succeeds or times out.
//   - Auto-reconnect with exponential backoff is always on.
//   - A Last Will and Testament marks the service offline on crash;
//     Close publishes a graceful offline status instead.
//
// State topics are retained so new subscribers immediately receive the
// current state of every switch.
package mqtt
