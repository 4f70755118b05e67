package pipeline

import (
	"errors"
	"fmt"
)

// Stage-level sentinels. Configuration, segmenting, and validation
// errors are fatal to the whole job; transcription errors are isolated
// per chunk and aggregated.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrProcessing    = errors.New("processing error")
	ErrValidation    = errors.New("validation error")
	ErrTranscription = errors.New("transcription error")
)

func wrapStage(marker error, detail string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
