// Package sandbox is the execution host the runner mutates: a filesystem
// rooted at a working directory, process spawning, and the single shared
// shell used for shell and start actions.
//
// Paths handed to a Host are sandbox paths: slash-separated, either
// relative to the working directory or absolute beneath it. The local
// implementation maps the working directory onto a real directory and
// refuses paths that would escape it.
package sandbox
