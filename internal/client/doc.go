// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the demo console application runtime.
//
// It is the composition root of the sync engine: it wires configuration,
// local storage, the settings gateway, services, and background workers into
// a single process lifecycle, signs in against the settings API, and keeps
// the composed resources fresh until the process is stopped.
package client
