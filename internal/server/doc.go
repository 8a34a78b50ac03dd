// Package server wires and runs the HTTP transport of the stub settings API.
//
// It owns the server lifecycle: startup, OS signal handling, and graceful
// shutdown with a bounded drain window.
package server
