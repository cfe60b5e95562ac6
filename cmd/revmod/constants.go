package main

// Defaults for CLI commands.
const (
	DefaultListLimit = 50
	DefaultUser      = "anonymous"
)
