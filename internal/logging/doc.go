// Package logging builds the slog loggers used across scribe. It provides
// a console handler for interactive use, a JSON handler for supervised
// runs, standardized attribute helpers, and context carriage for job and
// stage identifiers so every pipeline log line can be correlated.
package logging
