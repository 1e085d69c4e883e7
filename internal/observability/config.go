package observability

// Config captures opt-in observability toggles that wire into the core.
type Config struct {
	// VerboseEngineLog emits a debug event for every engine tick instead of
	// only state-changing transitions.
	VerboseEngineLog bool
}
