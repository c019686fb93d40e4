// Package emitter issues a configured number of identifiers from a
// generator and writes them, one per line, to an output stream.
//
// Workers call the generator concurrently and publish each id to a Bus. A
// single Writer drains the bus, so output lines never interleave. Clock
// regressions reported by the generator are retried with exponential
// backoff; every other error ends the run.
package emitter
