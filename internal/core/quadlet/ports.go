package quadlet

import "strings"

// =============================================================================
// Port Functions
// =============================================================================

// CoercePublishedPort applies the loopback publishing default. A plain
// "host:container" pair gains the 127.0.0.1 prefix so stacks are reverse-proxy
// friendly out of the box. Entries that already carry a bind address (two or
// more separators) and bare container ports pass through unchanged.
//
// Example:
//
//	CoercePublishedPort("8080:80")
//	// Returns: "127.0.0.1:8080:80"
//
//	CoercePublishedPort("192.168.1.5:8080:80")
//	// Returns: "192.168.1.5:8080:80"
func CoercePublishedPort(port string) string {
	if strings.Count(port, ":") == 1 {
		return "127.0.0.1:" + port
	}
	return port
}
