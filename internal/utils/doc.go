// Package utils contains the HTTP plumbing shared by all provider
// implementations: synchronous JSON POST with uniform response
// classification, streaming POST that leaves the body open for SSE
// consumption, and an incremental Server-Sent-Events scanner.
package utils
