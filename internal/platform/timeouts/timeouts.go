// Package timeouts defines shared timeout constants used across the server.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// CLIRun caps the wait time for a typical modal CLI invocation.
const CLIRun = 120 * time.Second

// CLIDeploy caps the wait time for deploy and run invocations, which build
// images and push code before returning.
const CLIDeploy = 300 * time.Second

// CLIBilling caps the wait time for billing report invocations.
const CLIBilling = 30 * time.Second

// StreamDefault is the default capture window for streaming log commands.
const StreamDefault = 10 * time.Second

// StreamMin is the shortest allowed capture window for streaming commands.
const StreamMin = 3 * time.Second

// StreamMax is the longest allowed capture window for streaming commands.
const StreamMax = 60 * time.Second

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
