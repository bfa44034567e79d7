package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"videodocs/internal/markers"
)

func TestExtractAudioArgs(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "audio.mp3")

	var gotName string
	var gotArgs []string
	ff := NewFFmpeg(Options{}, nil)
	ff.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return os.WriteFile(audioPath, []byte("audio"), 0o644)
	})

	if err := ff.ExtractAudio(context.Background(), "/video/in.mp4", audioPath); err != nil {
		t.Fatalf("ExtractAudio: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("binary = %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"-vn", "-acodec libmp3lame", "-ar 16000", "-ac 1", audioPath} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, gotArgs)
		}
	}
}

func TestExtractAudioMissingOutput(t *testing.T) {
	ff := NewFFmpeg(Options{}, nil)
	ff.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	err := ff.ExtractAudio(context.Background(), "in.mp4", filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("expected error when ffmpeg produced no file")
	}
}

func TestExtractFrameArgs(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "01_30.jpg")

	var gotArgs []string
	ff := NewFFmpeg(Options{FFmpegBinary: "/usr/bin/ffmpeg"}, nil)
	ff.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != "/usr/bin/ffmpeg" {
			t.Errorf("binary = %q", name)
		}
		gotArgs = args
		return os.WriteFile(outputPath, []byte("jpeg"), 0o644)
	})

	ts := markers.Timestamp("01:30")
	if err := ff.ExtractFrame(context.Background(), "in.mp4", ts, outputPath); err != nil {
		t.Fatalf("ExtractFrame: %v", err)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"-ss 01:30", "-vframes 1", "-q:v 2", "scale=1280:-1"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, gotArgs)
		}
	}
}

func TestExtractFramesTolerant(t *testing.T) {
	dir := t.TempDir()
	ff := NewFFmpeg(Options{}, nil)
	ff.WithCommandRunner(func(_ context.Context, _ string, args ...string) error {
		outputPath := args[len(args)-1]
		if strings.Contains(outputPath, "02_15") {
			return errors.New("seek past end")
		}
		return os.WriteFile(outputPath, []byte("jpeg"), 0o644)
	})

	timestamps := []markers.Timestamp{"00:10", "02:15", "03:40"}
	result, err := ff.ExtractFrames(context.Background(), "in.mp4", dir, timestamps)
	if err != nil {
		t.Fatalf("ExtractFrames: %v", err)
	}
	if len(result.Frames) != 2 {
		t.Fatalf("frames = %+v", result.Frames)
	}
	if got := result.Frames["00:10"]; got != filepath.Join(dir, "00_10.jpg") {
		t.Fatalf("frame path = %q", got)
	}
	if len(result.Failed) != 1 || result.Failed[0] != "02:15" {
		t.Fatalf("failed = %+v", result.Failed)
	}
}

func TestExtractFramesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ff := NewFFmpeg(Options{}, nil)
	ff.WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("runner should not be called after cancel")
		return nil
	})
	_, err := ff.ExtractFrames(ctx, "in.mp4", t.TempDir(), []markers.Timestamp{"00:10"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestProberDuration(t *testing.T) {
	prober := NewProber("", time.Second)
	prober.WithCommandOutput(func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffprobe" {
			t.Errorf("binary = %q", name)
		}
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "format=duration") {
			t.Errorf("args = %v", args)
		}
		return []byte("125.43\n"), nil
	})

	duration, err := prober.Duration(context.Background(), "in.mp4")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if duration != 125.43 {
		t.Fatalf("duration = %v", duration)
	}
}

func TestProberDurationParseError(t *testing.T) {
	prober := NewProber("ffprobe", time.Second)
	prober.WithCommandOutput(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("N/A"), nil
	})
	if _, err := prober.Duration(context.Background(), "in.mp4"); err == nil {
		t.Fatal("expected parse error")
	}
}
