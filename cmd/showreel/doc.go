// Package main hosts the showreel CLI.
//
// The command tree composes showreels from local image files without going
// through the HTTP API, and lists the available themes. Configuration comes
// from the same environment variables as the server.
package main
