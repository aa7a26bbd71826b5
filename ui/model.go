package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/framewise/config"
	"github.com/lepinkainen/framewise/markup"
	"github.com/lepinkainen/framewise/review"
	"github.com/lepinkainen/framewise/session"
)

const (
	sidebarWidth  = 38
	headerHeight  = 2
	footerHeight  = 2
	commentHeight = 4
)

type focusArea int

const (
	focusFrame focusArea = iota
	focusComment
	focusCheckpoints
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmSwitch
	confirmQuit
)

// ReviewModelConfig configures a review TUI
type ReviewModelConfig struct {
	Source      session.Source
	Capture     *markup.Capture
	Logger      *slog.Logger
	Palette     []string
	PlaybackFPS float64

	Videos     []string // playlist
	ReviewPath string   // review file to open instead of the first video
	OutPath    string   // save path when a single video is reviewed

	Version string
}

// ReviewModel is the interactive review TUI
type ReviewModel struct {
	session *session.Session
	view    *frameView
	logger  *slog.Logger

	// Playlist
	videos      []string
	videoLabels []string
	videoIndex  int
	reviewPath  string
	outPath     string

	palette      []string
	paletteIndex int

	// UI components
	comment     textarea.Model
	checkpoints list.Model
	focus       focusArea

	// Layout
	width  int
	height int

	// Control state
	status        string
	statusIsError bool
	playGen       int
	confirming    confirmKind
	confirmTarget int
	showHelp      bool
	quitting      bool

	// Version for display
	Version string
}

// NewReviewModel creates a review TUI. Call Start to bind the first video or review.
func NewReviewModel(cfg ReviewModelConfig) ReviewModel {
	view := &frameView{}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := session.New(cfg.Source, view, session.Options{
		Logger:      logger,
		Capture:     cfg.Capture,
		PlaybackFPS: cfg.PlaybackFPS,
	})

	palette := cfg.Palette
	if len(palette) == 0 {
		palette = []string{s.Capture().Color()}
	}

	comment := textarea.New()
	comment.Placeholder = "Comment for this frame..."
	comment.ShowLineNumbers = false
	comment.CharLimit = 0
	comment.SetWidth(sidebarWidth - 2)
	comment.SetHeight(commentHeight)
	comment.Blur()

	checkpoints := list.New([]list.Item{}, list.NewDefaultDelegate(), sidebarWidth-2, 10)
	checkpoints.Title = "Checkpoints"
	checkpoints.SetShowHelp(false)
	checkpoints.SetShowStatusBar(false)
	checkpoints.SetFilteringEnabled(false)
	checkpoints.DisableQuitKeybindings()

	return ReviewModel{
		session:     s,
		view:        view,
		logger:      logger,
		videos:      cfg.Videos,
		videoLabels: optimizePaths(cfg.Videos),
		reviewPath:  cfg.ReviewPath,
		outPath:     cfg.OutPath,
		palette:     palette,
		comment:     comment,
		checkpoints: checkpoints,
		Version:     cfg.Version,
	}
}

// Session exposes the controller driven by the TUI
func (m ReviewModel) Session() *session.Session {
	return m.session
}

// Start binds the review file or the first video of the playlist
func (m *ReviewModel) Start() error {
	if m.reviewPath != "" {
		if err := m.session.BindReview(m.reviewPath); err != nil {
			return err
		}
		if r := m.session.Review(); r != nil {
			m.setVideos(append([]string{r.VideoPath}, m.videos...))
		}
		m.videoIndex = 0
		m.sync()
		return nil
	}

	if len(m.videos) == 0 {
		return errors.New("nothing to review")
	}
	err := m.bindVideo(0)
	m.sync()
	return err
}

func (m *ReviewModel) setVideos(videos []string) {
	seen := make(map[string]bool)
	var unique []string
	for _, v := range videos {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	m.videos = unique
	m.videoLabels = optimizePaths(unique)
}

// bindVideo opens a playlist entry, resuming its review file when one exists
func (m *ReviewModel) bindVideo(index int) error {
	path := m.videos[index]

	var err error
	if existing := review.DefaultPath(path); fileExists(existing) {
		err = m.session.BindReview(existing)
	} else {
		err = m.session.BindVideo(path)
	}
	if err != nil {
		return err
	}

	m.videoIndex = index
	m.setStatus(fmt.Sprintf("Loaded %s", m.videoLabels[index]), false)
	return nil
}

// savePath picks where ctrl+s writes the review
func (m ReviewModel) savePath() string {
	if m.outPath != "" && len(m.videos) <= 1 {
		return review.OutputPath(m.outPath)
	}
	if p := m.session.ReviewPath(); p != "" {
		return p
	}
	if r := m.session.Review(); r != nil {
		return review.DefaultPath(r.VideoPath)
	}
	return ""
}

// Init implements tea.Model
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.confirming != confirmNone {
			return m.handleConfirmationInput(msg)
		}
		switch m.focus {
		case focusComment:
			cmd = m.handleCommentInput(msg)
		case focusCheckpoints:
			cmd = m.handleCheckpointInput(msg)
		default:
			var quit bool
			cmd, quit = m.handleFrameInput(msg)
			if quit {
				return m, tea.Quit
			}
		}

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case playbackTickMsg:
		if msg.gen == m.playGen {
			more, err := m.session.Tick()
			if err == nil && more {
				cmd = m.tick()
			}
		}
	}

	m.sync()
	return m, cmd
}

func (m *ReviewModel) handleFrameInput(msg tea.KeyMsg) (tea.Cmd, bool) {
	capture := m.session.Capture()

	switch msg.String() {
	case "q":
		if m.session.Dirty() {
			m.confirming = confirmQuit
			return nil, false
		}
		m.quitting = true
		return nil, true

	case "?":
		m.showHelp = !m.showHelp

	case "right", "l":
		_ = m.session.Step(1)
	case "left", "h":
		_ = m.session.Step(-1)
	case "shift+right", "L":
		_ = m.session.Step(10)
	case "shift+left", "H":
		_ = m.session.Step(-10)
	case "home", "g":
		if info, ok := m.session.Info(); ok && info.FrameCount > 0 {
			_ = m.session.NavigateTo(0)
		}
	case "end", "G":
		if info, ok := m.session.Info(); ok && info.FrameCount > 0 {
			_ = m.session.NavigateTo(info.LastIndex())
		}

	case "p":
		_ = capture.SetMode(review.Freehand)
		m.setStatus("Tool: pen", false)
	case "r":
		_ = capture.SetMode(review.Rectangle)
		m.setStatus("Tool: rectangle", false)
	case "[":
		capture.SetWidth(capture.Width() - 1)
	case "]":
		capture.SetWidth(min(config.MaxWidth, capture.Width()+1))
	case "o":
		m.paletteIndex = (m.paletteIndex + 1) % len(m.palette)
		if err := capture.SetColor(m.palette[m.paletteIndex]); err != nil {
			m.setStatus(err.Error(), true)
		}
	case "c":
		if err := m.session.ClearMarkups(); err == nil {
			m.setStatus("Markups cleared", false)
		}

	case " ":
		if err := m.session.TogglePlayback(); err != nil {
			return nil, false
		}
		if m.session.State() == session.Playing {
			m.playGen++
			return m.tick(), false
		}

	case "ctrl+s":
		m.save()

	case "<", ",":
		m.requestSwitch(m.videoIndex - 1)
	case ">", ".":
		m.requestSwitch(m.videoIndex + 1)

	case "tab":
		return m.setFocus(focusComment), false
	case "shift+tab":
		return m.setFocus(focusCheckpoints), false
	}

	return nil, false
}

func (m *ReviewModel) handleCommentInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.setFocus(focusFrame)
	case "tab":
		return m.setFocus(focusCheckpoints)
	case "ctrl+s":
		m.save()
		return nil
	}

	before := m.comment.Value()
	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	if after := m.comment.Value(); after != before {
		m.session.SetComment(after)
	}
	return cmd
}

func (m *ReviewModel) handleCheckpointInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "tab":
		return m.setFocus(focusFrame)
	case "shift+tab":
		return m.setFocus(focusComment)
	case "enter":
		if item, ok := m.checkpoints.SelectedItem().(checkpointItem); ok {
			_ = m.session.NavigateTo(item.index)
		}
		return nil
	}

	var cmd tea.Cmd
	m.checkpoints, cmd = m.checkpoints.Update(msg)
	return cmd
}

func (m *ReviewModel) handleConfirmationInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.confirming
	m.confirming = confirmNone

	switch msg.String() {
	case "y", "Y":
		switch kind {
		case confirmQuit:
			m.quitting = true
			return *m, tea.Quit
		case confirmSwitch:
			m.switchVideo(m.confirmTarget)
		}
	case "s", "S":
		if !m.save() {
			return *m, nil
		}
		switch kind {
		case confirmQuit:
			m.quitting = true
			return *m, tea.Quit
		case confirmSwitch:
			m.switchVideo(m.confirmTarget)
		}
	}

	m.sync()
	return *m, nil
}

func (m *ReviewModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	info, ok := m.session.Info()
	if !ok || m.view.frame == nil {
		return nil
	}
	rect := m.previewRect()
	if rect.empty() {
		return nil
	}
	p := rect.toFrame(msg.X, msg.Y, info.Width, info.Height)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if rect.contains(msg.X, msg.Y) {
				m.focus = focusFrame
				m.comment.Blur()
				m.session.PointerDown(p)
			}
		case tea.MouseButtonWheelUp:
			_ = m.session.Step(-1)
		case tea.MouseButtonWheelDown:
			_ = m.session.Step(1)
		}
	case tea.MouseActionMotion:
		m.session.PointerMove(p)
	case tea.MouseActionRelease:
		m.session.PointerUp(p)
	}
	return nil
}

func (m *ReviewModel) requestSwitch(target int) {
	if target < 0 || target >= len(m.videos) || target == m.videoIndex {
		return
	}
	if m.session.Dirty() {
		m.confirming = confirmSwitch
		m.confirmTarget = target
		return
	}
	m.switchVideo(target)
}

func (m *ReviewModel) switchVideo(target int) {
	m.session.Pause()
	if err := m.bindVideo(target); err != nil {
		m.logger.Warn("Failed to switch video", "path", m.videos[target], "error", err)
	}
}

// save writes the review and reports the outcome in the status line
func (m *ReviewModel) save() bool {
	path := m.savePath()
	if path == "" {
		m.setStatus("Nothing to save", true)
		return false
	}
	if err := m.session.Save(path); err != nil {
		return false
	}
	m.setStatus(fmt.Sprintf("Saved %s", path), false)
	return true
}

func (m *ReviewModel) setFocus(focus focusArea) tea.Cmd {
	m.focus = focus
	if focus == focusComment {
		return m.comment.Focus()
	}
	m.comment.Blur()
	return nil
}

func (m *ReviewModel) setStatus(status string, isError bool) {
	m.status = status
	m.statusIsError = isError
}

func (m ReviewModel) tick() tea.Cmd {
	gen := m.playGen
	return tea.Tick(m.session.PlaybackInterval(), func(time.Time) tea.Msg {
		return playbackTickMsg{gen: gen}
	})
}

// sync copies session notifications into the widgets
func (m *ReviewModel) sync() {
	v := m.view

	if v.commentChanged {
		m.comment.SetValue(v.comment)
		v.commentChanged = false
	}

	if v.checkpointsChanged {
		m.refreshCheckpoints()
		v.checkpointsChanged = false
	}

	if v.errChanged {
		m.setStatus(fmt.Sprintf("%s: %s", v.errKind, v.errMessage), true)
		v.errChanged = false
	}
}

func (m *ReviewModel) refreshCheckpoints() {
	r := m.session.Review()
	if r == nil {
		m.checkpoints.SetItems(nil)
		return
	}

	current, loaded := m.session.Current()
	items := make([]list.Item, 0, len(m.view.checkpoints))
	selected := -1
	for i, index := range m.view.checkpoints {
		items = append(items, newCheckpointItem(index, r.FPS, r.Frames[index]))
		if loaded && index == current {
			selected = i
		}
	}

	m.checkpoints.SetItems(items)
	if selected >= 0 {
		m.checkpoints.Select(selected)
	}
}

func (m *ReviewModel) resize() {
	listHeight := m.height - headerHeight - footerHeight - commentHeight - 6
	m.checkpoints.SetSize(sidebarWidth-2, max(3, listHeight))
}

// previewRect is where the current frame is drawn on screen
func (m ReviewModel) previewRect() previewRect {
	info, ok := m.session.Info()
	if !ok {
		return previewRect{}
	}
	x := sidebarWidth + 1
	maxCols := m.width - x
	maxRows := m.height - headerHeight - footerHeight - 1
	return fitPreview(x, headerHeight, maxCols, maxRows, info.Width, info.Height)
}

// View implements tea.Model
func (m ReviewModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.confirming != confirmNone {
		return m.renderConfirmationDialog()
	}
	if m.showHelp {
		return m.renderHelp()
	}

	header := HeaderStyle.Render(m.headerText())
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(sidebarWidth).Render(m.renderSidebar()),
		" ",
		m.renderPreview(),
	)

	return strings.Join([]string{header, body, m.renderFooter()}, "\n")
}

func (m ReviewModel) headerText() string {
	title := fmt.Sprintf("Framewise %s", m.Version)
	if len(m.videoLabels) > 0 && m.videoIndex < len(m.videoLabels) {
		title += " - " + m.videoLabels[m.videoIndex]
		if len(m.videos) > 1 {
			title += fmt.Sprintf(" (%d of %d)", m.videoIndex+1, len(m.videos))
		}
	}
	if m.session.Dirty() {
		title += " *"
	}
	return title
}

func (m ReviewModel) renderSidebar() string {
	var content strings.Builder

	info, bound := m.session.Info()
	current, loaded := m.session.Current()
	switch {
	case !bound:
		content.WriteString(InfoStyle.Render("No video"))
	case !loaded:
		content.WriteString(InfoStyle.Render("Video has no frames"))
	default:
		position := fmt.Sprintf("Frame %d / %d", current, info.LastIndex())
		if ts, ok := info.Timestamp(current); ok {
			position += fmt.Sprintf("  %.2fs", ts)
		}
		content.WriteString(InfoStyle.Render(position))
		if m.session.State() == session.Playing {
			content.WriteString(" " + ProcessingStyle.Render("▶"))
		}
	}
	content.WriteString("\n")

	capture := m.session.Capture()
	tool := "pen"
	if capture.Mode() == review.Rectangle {
		tool = "rect"
	}
	content.WriteString(fmt.Sprintf("Tool: %s %s width %d\n\n", tool, swatch(capture.Color()), capture.Width()))

	content.WriteString(m.label("Comment", m.focus == focusComment))
	content.WriteString("\n")
	content.WriteString(m.comment.View())
	content.WriteString("\n\n")

	if m.focus == focusCheckpoints {
		m.checkpoints.Styles.Title = FocusedLabelStyle
	} else {
		m.checkpoints.Styles.Title = LabelStyle
	}
	content.WriteString(m.checkpoints.View())

	return content.String()
}

func (m ReviewModel) label(text string, focused bool) string {
	if focused {
		return FocusedLabelStyle.Render(text)
	}
	return LabelStyle.Render(text)
}

func (m ReviewModel) renderPreview() string {
	rect := m.previewRect()
	if m.view.frame == nil || rect.empty() {
		return ""
	}

	shapes := m.session.Pending().Markups
	if preview, ok := m.session.Preview(); ok {
		shapes = append(shapes, preview)
	}
	return renderFrame(m.view.frame, shapes, rect)
}

func (m ReviewModel) renderFooter() string {
	status := InfoStyle.Render(m.status)
	if m.statusIsError {
		status = ErrorStyle.Render(m.status)
	}
	hints := HelpStyle.Render("←/→ frame  space play  p/r tool  [/] width  o color  c clear  tab comment  ctrl+s save  ? help  q quit")
	return status + "\n" + hints
}

func (m ReviewModel) renderConfirmationDialog() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("⚠️  Unsaved changes"))
	content.WriteString("\n\n")

	switch m.confirming {
	case confirmQuit:
		content.WriteString("Quit without saving the review?\n\n")
	case confirmSwitch:
		content.WriteString(fmt.Sprintf("Switch to %s without saving the review?\n\n", m.videoLabels[m.confirmTarget]))
	}

	content.WriteString(ErrorStyle.Render("Unsaved comments and markups will be lost!"))
	content.WriteString("\n\n")
	content.WriteString("Press 'y' to discard, 's' to save first, any other key to cancel")

	return content.String()
}

func (m ReviewModel) renderHelp() string {
	help := []string{
		HeaderStyle.Render("Framewise - Keys"),
		"Navigation:",
		"  ←/→ or h/l        Previous/Next frame",
		"  shift+←/→ or H/L  Back/Forward 10 frames",
		"  home/end or g/G   First/Last frame",
		"  space             Play/Pause",
		"  mouse wheel       Previous/Next frame",
		"",
		"Markup:",
		"  drag on frame     Draw with the current tool",
		"  p / r             Pen / Rectangle tool",
		"  [ / ]             Thinner / Thicker stroke",
		"  o                 Next palette color",
		"  c                 Clear markups on this frame",
		"",
		"Review:",
		"  tab               Edit comment, then checkpoints",
		"  enter             Jump to selected checkpoint",
		"  esc               Back to the frame",
		"  < / >             Previous/Next video",
		"  ctrl+s            Save review",
		"  ?                 Toggle this help",
		"  q                 Quit",
		"",
	}

	return strings.Join(help, "\n")
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
