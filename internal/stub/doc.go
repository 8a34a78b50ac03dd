// Package stub implements an in-memory development server for the settings
// API the sync engine talks to.
//
// It serves the five console resources over the same REST boundary the
// production backend exposes: bearer-token authentication, document reads,
// RFC 7386 merge-patch writes, and session actions. All state lives in
// process memory and resets on restart; the stub exists for demos and
// integration tests, not for production use.
package stub
