package video

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// probeOutput mirrors the subset of `ffprobe -of json` output we read.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	NbReadFrames string `json:"nb_read_frames"`
	Duration     string `json:"duration"`
}

// ProbeVideo reads the dimensions, frame rate and frame count of the first video stream.
func (f *FFmpeg) ProbeVideo(ctx context.Context, videoFile string) (Info, error) {
	if _, err := os.Stat(videoFile); err != nil {
		return Info{}, fmt.Errorf("file not accessible: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.FFprobePath, "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,nb_frames,duration:format=duration",
		"-of", "json", "--", videoFile)
	output, err := cmd.Output()
	if err != nil {
		return Info{}, describeProbeFailure(err)
	}

	info, err := parseProbeOutput(output)
	if err != nil {
		return Info{}, err
	}
	info.Path = videoFile

	if info.FrameCount == 0 {
		// Containers without nb_frames or duration need a full decode pass.
		count, err := f.countFrames(ctx, videoFile)
		if err != nil {
			return Info{}, err
		}
		info.FrameCount = count
	}

	return info, nil
}

// parseProbeOutput builds Info from ffprobe JSON. FrameCount is 0 when the
// container reports neither a frame count nor a usable duration.
func parseProbeOutput(output []byte) (Info, error) {
	var probe probeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return Info{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return Info{}, fmt.Errorf("no video stream found")
	}

	stream := probe.Streams[0]
	if stream.Width <= 0 || stream.Height <= 0 {
		return Info{}, fmt.Errorf("invalid video dimensions %dx%d", stream.Width, stream.Height)
	}

	fps := parseFrameRate(stream.AvgFrameRate)
	if fps <= 0 {
		fps = parseFrameRate(stream.RFrameRate)
	}

	info := Info{
		FPS:    fps,
		Width:  stream.Width,
		Height: stream.Height,
	}

	if n, err := strconv.Atoi(strings.TrimSpace(stream.NbFrames)); err == nil && n > 0 {
		info.FrameCount = n
		return info, nil
	}

	duration := parseSeconds(stream.Duration)
	if duration <= 0 {
		duration = parseSeconds(probe.Format.Duration)
	}
	if duration > 0 && fps > 0 {
		info.FrameCount = int(math.Round(duration * fps))
	}

	return info, nil
}

// countFrames decodes the whole stream to count frames.
func (f *FFmpeg) countFrames(ctx context.Context, videoFile string) (int, error) {
	cmd := exec.CommandContext(ctx, f.FFprobePath, "-v", "error", "-count_frames", "-select_streams", "v:0",
		"-show_entries", "stream=nb_read_frames", "-of", "json", "--", videoFile)
	output, err := cmd.Output()
	if err != nil {
		return 0, describeProbeFailure(err)
	}

	var probe probeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return 0, fmt.Errorf("no video stream found")
	}

	n, err := strconv.Atoi(strings.TrimSpace(probe.Streams[0].NbReadFrames))
	if err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return n, nil
}

// parseFrameRate parses ffprobe rationals like "30000/1001". Unknown rates yield 0.
func parseFrameRate(rate string) float64 {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return 0
	}

	num, den, found := strings.Cut(rate, "/")
	if !found {
		return parseSeconds(num)
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// GetFileSize returns the size of a file in bytes
func GetFileSize(filePath string) (int64, error) {
	fi, err := os.Stat(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to get file size: %w", err)
	}
	return fi.Size(), nil
}
