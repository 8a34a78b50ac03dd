package server

// Server is the lifecycle contract of the stub settings API process.
//
// Implementations block in [RunServer] until a stop signal arrives and
// release the listener in [Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
