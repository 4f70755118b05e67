// Package media wraps the external ffmpeg/ffprobe invocations the
// pipeline depends on: stream-copy segmenting into ordinal-named chunks,
// decode-only chunk validation, WAV conversion for backends that cannot
// accept compressed audio, and input duration probing.
//
// Every invocation runs under an explicit timeout and captures stderr so
// tool failures surface verbatim in job errors.
package media
