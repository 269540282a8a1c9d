package cmd

// Overridden at link time for release builds.
var (
	version   = "dev"
	commit    = "none"
	buildType = "source"
)
