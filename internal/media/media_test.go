package media_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scribe/internal/media"
)

// fakeRunner records invocations and replies with canned results.
type fakeRunner struct {
	calls  [][]string
	result media.CommandResult
	err    error
	onRun  func(args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (media.CommandResult, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.onRun != nil {
		f.onRun(args)
	}
	return f.result, f.err
}

func TestSegmentBuildsStreamCopyInvocation(t *testing.T) {
	outDir := t.TempDir()
	runner := &fakeRunner{
		onRun: func([]string) {
			for i := 0; i < 3; i++ {
				path := filepath.Join(outDir, fmt.Sprintf("chunk_%03d.mp3", i))
				if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
					t.Fatalf("write chunk: %v", err)
				}
			}
		},
	}

	seg := media.NewSegmenter("ffmpeg", runner, time.Minute)
	chunks, err := seg.Segment(context.Background(), "/audio/input.mp3", outDir, 300)
	if err != nil {
		t.Fatalf("Segment returned error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if filepath.Base(chunks[0]) != "chunk_000.mp3" || filepath.Base(chunks[2]) != "chunk_002.mp3" {
		t.Fatalf("unexpected chunk order: %v", chunks)
	}

	invocation := strings.Join(runner.calls[0], " ")
	for _, want := range []string{"-f segment", "-segment_time 300", "-c copy", "-reset_timestamps 1", "chunk_%03d.mp3"} {
		if !strings.Contains(invocation, want) {
			t.Errorf("invocation missing %q: %s", want, invocation)
		}
	}
}

func TestSegmentZeroFilesIsAnError(t *testing.T) {
	seg := media.NewSegmenter("ffmpeg", &fakeRunner{}, time.Minute)
	_, err := seg.Segment(context.Background(), "/audio/input.mp3", t.TempDir(), 60)
	if !errors.Is(err, media.ErrNoChunks) {
		t.Fatalf("expected ErrNoChunks, got %v", err)
	}
}

func TestSegmentRejectsNonPositiveDuration(t *testing.T) {
	seg := media.NewSegmenter("ffmpeg", &fakeRunner{}, time.Minute)
	if _, err := seg.Segment(context.Background(), "in.mp3", t.TempDir(), 0); err == nil {
		t.Fatal("expected error for zero chunk duration")
	}
}

func TestValidateSurfacesStderrVerbatim(t *testing.T) {
	runner := &fakeRunner{
		result: media.CommandResult{Stderr: "Header missing\ndecode error", ExitCode: 1},
		err:    errors.New("exit status 1"),
	}
	validator := media.NewValidator("ffmpeg", runner, time.Second)

	err := validator.Validate(context.Background(), "/work/chunk_001.mp3")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "Header missing") {
		t.Fatalf("stderr not surfaced: %v", err)
	}

	invocation := strings.Join(runner.calls[0], " ")
	if !strings.Contains(invocation, "-f null -") {
		t.Fatalf("expected null muxer invocation, got %s", invocation)
	}
}

func TestConverterTargetsMono16k(t *testing.T) {
	runner := &fakeRunner{}
	conv := media.NewConverter("ffmpeg", runner, time.Second)
	if err := conv.ToWAV(context.Background(), "chunk_000.mp3", "chunk_000.wav"); err != nil {
		t.Fatalf("ToWAV returned error: %v", err)
	}
	invocation := strings.Join(runner.calls[0], " ")
	for _, want := range []string{"-ac 1", "-ar 16000", "-c:a pcm_s16le"} {
		if !strings.Contains(invocation, want) {
			t.Errorf("invocation missing %q: %s", want, invocation)
		}
	}
}

func TestProbeParsesDuration(t *testing.T) {
	runner := &fakeRunner{result: media.CommandResult{Stdout: "725.04\n"}}
	probe := media.NewProbe("ffprobe", runner, time.Second)

	d, err := probe.Duration(context.Background(), "input.mp3")
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if d < 725*time.Second || d > 726*time.Second {
		t.Fatalf("unexpected duration %s", d)
	}
}

func TestProbeRejectsGarbageOutput(t *testing.T) {
	runner := &fakeRunner{result: media.CommandResult{Stdout: "N/A"}}
	probe := media.NewProbe("ffprobe", runner, time.Second)
	if _, err := probe.Duration(context.Background(), "input.mp3"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMIMEType(t *testing.T) {
	if got := media.MIMEType("talk.MP3"); got != "audio/mpeg" {
		t.Fatalf("MIMEType(mp3) = %q", got)
	}
	if got := media.MIMEType("talk.xyz"); got != "application/octet-stream" {
		t.Fatalf("MIMEType(xyz) = %q", got)
	}
	if !media.SupportedInput("a.flac") || media.SupportedInput("a.txt") {
		t.Fatal("SupportedInput misclassified input")
	}
}
