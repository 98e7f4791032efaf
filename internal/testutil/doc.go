// Package testutil contains helpers shared by the package tests: a tracing
// middleware (Recorder) that records hook invocations and wrapper calls, and
// a counter state with matching reducer and receivers.
package testutil
