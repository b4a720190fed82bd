package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Health check and the read-only GraphQL endpoint stay public
	return []string{"/", "/health", "/graphql"}
}
