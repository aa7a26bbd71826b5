package video

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// DefaultDecodeTimeout bounds a single ffprobe or ffmpeg invocation.
const DefaultDecodeTimeout = 30 * time.Second

// FFmpeg is a Backend that probes with ffprobe and decodes single frames with ffmpeg.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
	Timeout     time.Duration
}

// NewFFmpeg creates an ffmpeg backend. Empty paths fall back to the binaries in PATH.
func NewFFmpeg(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if timeout <= 0 {
		timeout = DefaultDecodeTimeout
	}
	return &FFmpeg{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath, Timeout: timeout}
}

// Open probes videoFile and returns a stream that decodes frames on demand.
func (f *FFmpeg) Open(videoFile string) (Stream, error) {
	ctx, cancel := context.WithTimeout(context.Background(), f.Timeout)
	defer cancel()

	info, err := f.ProbeVideo(ctx, videoFile)
	if err != nil {
		return nil, err
	}
	return &ffmpegStream{backend: f, info: info}, nil
}

type ffmpegStream struct {
	backend *FFmpeg
	info    Info
}

func (s *ffmpegStream) Info() Info {
	return s.info
}

func (s *ffmpegStream) Decode(index int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.backend.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.backend.FFmpegPath, decodeArgs(s.info, index)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffmpeg timed out after %s", s.backend.Timeout)
		}
		return nil, fmt.Errorf("ffmpeg error: %w\nOutput: %s", err, extractFirstLine(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame data: %s", extractFirstLine(stderr.String()))
	}

	return stdout.Bytes(), nil
}

// Close is a no-op; every decode runs in its own ffmpeg process.
func (s *ffmpegStream) Close() error {
	return nil
}

// decodeArgs builds the ffmpeg arguments that write frame index as raw RGB24 to stdout.
// With a known frame rate the input is seeked by timestamp, otherwise the frame
// is picked by its decode number.
func decodeArgs(info Info, index int) []string {
	args := []string{"-v", "error", "-nostdin", "-noautorotate"}

	if ts, ok := info.Timestamp(index); ok {
		args = append(args, "-ss", strconv.FormatFloat(ts, 'f', 6, 64), "-i", info.Path)
	} else {
		args = append(args, "-i", info.Path, "-vf", fmt.Sprintf("select=eq(n\\,%d)", index), "-vsync", "0")
	}

	return append(args, "-frames:v", "1", "-f", "rawvideo", "-pix_fmt", "rgb24", "-")
}
