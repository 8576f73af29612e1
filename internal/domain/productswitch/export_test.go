package productswitch

// NewRegistryForTest builds a registry directly from a handler map so the
// external test package can exercise Validate on invalid configurations.
func NewRegistryForTest(handlers map[SwitchKey]Handler) *Registry {
	return &Registry{handlers: handlers}
}
