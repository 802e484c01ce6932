package internal

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Audio handles audio file operations using FFmpeg
type Audio struct {
	cmdRunner CommandRunner
	verbose   bool
}

// NewAudio creates a new audio processor
func NewAudio(cmdRunner CommandRunner, verbose bool) *Audio {
	return &Audio{
		cmdRunner: cmdRunner,
		verbose:   verbose,
	}
}

// HasAudioStream reports whether the media file carries at least one audio stream
func (a *Audio) HasAudioStream(ctx context.Context, mediaFile string) (bool, error) {
	output, err := a.cmdRunner.Run(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index",
		"-of", "csv=p=0",
		mediaFile)

	if err != nil {
		return false, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	return strings.TrimSpace(string(output)) != "", nil
}

// ExtractAudio writes the audio track of a video to outputFile as mp3
func (a *Audio) ExtractAudio(ctx context.Context, videoFile, outputFile string) error {
	hasAudio, err := a.HasAudioStream(ctx, videoFile)
	if err != nil {
		return fmt.Errorf("probing streams: %w", err)
	}
	if !hasAudio {
		return fmt.Errorf("%w in %s", ErrNoAudioTrack, filepath.Base(videoFile))
	}

	if a.verbose {
		fmt.Printf("Extracting audio from %s\n", videoFile)
	}

	cmdOutput, err := a.cmdRunner.Run(ctx, "ffmpeg",
		"-v", "error",
		"-i", videoFile,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-y", outputFile)

	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(cmdOutput))
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		return fmt.Errorf("checking extracted audio: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("extracted audio is empty")
	}
	return nil
}

// Duration returns the audio file duration in seconds
func (a *Audio) Duration(ctx context.Context, audioFile string) (float64, error) {
	output, err := a.cmdRunner.Run(ctx, "ffprobe",
		"-i", audioFile,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0")

	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration: %w", err)
	}

	return duration, nil
}

// Split divides an audio file into numChunks mp3 files inside dir
func (a *Audio) Split(ctx context.Context, audioFile, dir string, numChunks int) ([]string, error) {
	if err := EnsureDirs(dir); err != nil {
		return nil, fmt.Errorf("creating chunk directory: %w", err)
	}

	duration, err := a.Duration(ctx, audioFile)
	if err != nil {
		return nil, fmt.Errorf("getting audio duration: %w", err)
	}

	chunkDuration := int(math.Ceil(duration / float64(numChunks)))
	chunks := make([]string, 0, numChunks)

	for i := range numChunks {
		start := i * chunkDuration
		output := filepath.Join(dir, fmt.Sprintf("chunk_%d.mp3", i))

		if err := a.Chunk(ctx, audioFile, start, chunkDuration, output); err != nil {
			cleanupFiles(chunks...)
			return nil, fmt.Errorf("creating chunk %d: %w", i, err)
		}
		chunks = append(chunks, output)
	}

	return chunks, nil
}

// Chunk re-encodes a segment of an audio file to mp3
func (a *Audio) Chunk(ctx context.Context, audioFile string, start, duration int, output string) error {
	cmdOutput, err := a.cmdRunner.Run(ctx, "ffmpeg",
		"-v", "quiet",
		"-i", audioFile,
		"-ss", strconv.Itoa(start),
		"-t", strconv.Itoa(duration),
		"-vn",
		"-acodec", "libmp3lame",
		"-y", output)

	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(cmdOutput))
	}
	return nil
}
