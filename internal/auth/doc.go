// Package auth verifies bearer tokens for incoming webhook requests.
//
// Tokens are HS256 JWTs signed with a pre-shared secret. switchhook never
// issues tokens over the wire - callers obtain them out of band - so this
// package is verification-only plus a NewToken helper for tooling and tests.
//
// Verification is a pure function of (token, secret, clock): no state is
// kept, tokens are never cached, and the package is safe for concurrent
// use from every request goroutine. Only HS256 is accepted; a token whose
// header names any other algorithm fails verification, which blocks
// algorithm-substitution forgeries.
package auth
