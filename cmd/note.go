package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/lepinkainen/framewise/review"
	"github.com/lepinkainen/framewise/session"
	"github.com/lepinkainen/framewise/types"
	"github.com/lepinkainen/framewise/ui"
)

// NoteCmd annotates a single frame without the TUI.
type NoteCmd struct {
	Review string    `arg:"" name:"review" help:"Review file to update, created when missing" type:"path"`
	Frame  int       `name:"frame" short:"f" required:"" help:"Frame index"`
	Text   string    `name:"text" short:"t" help:"Comment for the frame"`
	Rect   []float64 `name:"rect" help:"Add a rectangle x0,y0,x1,y1 in frame pixels"`
	Clear  bool      `name:"clear" help:"Remove existing markups from the frame"`
	Video  string    `name:"video" help:"Video for a new review file" type:"existingfile"`
}

func (cmd *NoteCmd) Validate() error {
	if cmd.Frame < 0 {
		return fmt.Errorf("--frame must not be negative, got %d", cmd.Frame)
	}
	if len(cmd.Rect) != 0 && len(cmd.Rect) != 4 {
		return fmt.Errorf("--rect needs 4 values, got %d", len(cmd.Rect))
	}
	return nil
}

func (cmd *NoteCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.ConfigOrDefault()
	logger := appCtx.LoggerOrDiscard()

	loader, err := newLoader(cfg)
	if err != nil {
		return err
	}
	capture, err := cfg.NewCapture()
	if err != nil {
		return fmt.Errorf("invalid tool settings: %w", err)
	}

	s := session.New(loader, nil, session.Options{Logger: logger, Capture: capture})
	defer func() { _ = s.Close() }()

	path := review.OutputPath(cmd.Review)
	if err := cmd.bind(s, path); err != nil {
		return err
	}

	if err := s.NavigateTo(cmd.Frame); err != nil {
		return fmt.Errorf("failed to load frame %d: %w", cmd.Frame, err)
	}

	if cmd.Clear {
		if err := s.ClearMarkups(); err != nil {
			return err
		}
	}
	if cmd.Text != "" {
		s.SetComment(cmd.Text)
	}
	if len(cmd.Rect) == 4 {
		if err := s.Capture().SetMode(review.Rectangle); err != nil {
			return err
		}
		s.PointerDown(review.Point{X: cmd.Rect[0], Y: cmd.Rect[1]})
		s.PointerMove(review.Point{X: cmd.Rect[2], Y: cmd.Rect[3]})
		s.PointerUp(review.Point{X: cmd.Rect[2], Y: cmd.Rect[3]})
	}

	if err := s.Save(path); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}

	fmt.Printf("%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ %s saved to %s",
		review.FrameLabel(cmd.Frame, s.Review().FPS), path)))
	return nil
}

// bind continues the review at path, or starts one for --video when it does not exist yet
func (cmd *NoteCmd) bind(s *session.Session, path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := s.BindReview(path); err != nil {
			return fmt.Errorf("failed to open review: %w", err)
		}
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("cannot access %s: %w", path, err)
	case cmd.Video == "":
		return fmt.Errorf("%s does not exist, pass --video to start a new review", path)
	}

	if err := s.BindVideo(cmd.Video); err != nil {
		return fmt.Errorf("failed to open video: %w", err)
	}
	return nil
}
