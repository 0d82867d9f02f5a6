package main

// Exit codes for the contacts CLI.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, I/O failure)
	ExitConfigError = 2 // Configuration error (unreadable config, bad page size)
	ExitDataError   = 3 // Data error (malformed phone, email, birthday or name)
	ExitNotFound    = 4 // Contact or value not found
)
