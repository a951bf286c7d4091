package ir

// Version constants stamped on every pass.
const (
	// IRVersion is the artifact record schema version.
	IRVersion = "1"

	// CompilerVersion is the megac compiler version.
	CompilerVersion = "0.1.0"
)
