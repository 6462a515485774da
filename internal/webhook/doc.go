// Package webhook contains the request validation and dispatch logic for
// incoming switch commands.
//
// A request moves through a fixed pipeline: bearer-token verification (done
// by the HTTP layer), ParseCommand (purely syntactic validation into a typed
// Command), then Dispatcher.Dispatch, which resolves the switch, applies the
// action and any supplied attributes as one atomic registry operation, and
// builds the result echoed back to the caller. Errors exit the pipeline
// immediately; nothing is retried.
package webhook
