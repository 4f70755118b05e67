// Package backend defines the pluggable transcription backend contract,
// the closed primary/secondary family enum, typed error classification
// at the adapter boundary, and the selector that picks a backend per
// job and decides cross-backend fallback per chunk.
package backend
