// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client is the lifecycle contract of the console application.
type Client interface {
	// Run signs in, starts the sync engine, and blocks until the process
	// receives a stop signal.
	Run() error
}
