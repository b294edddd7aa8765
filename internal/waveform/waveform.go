// Package waveform provides a floating window with audio visualization.
package waveform

import (
	"image"
	"image/color"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"
)

// State represents the window display state.
type State int

const (
	StateRecording State = iota // Live waveform
	StatePaused                 // Frozen waveform
	StateFinished               // Clip review with playback
)

// SampleProvider provides audio samples for visualization.
type SampleProvider interface {
	GetSamples() []float32
	IsRecording() bool
}

// Config holds window configuration.
type Config struct {
	Width        int           // Window width in pixels
	Height       int           // Window height in pixels
	RefreshRate  time.Duration // Refresh interval
	BGColor      color.NRGBA   // Background color
	WaveColor    color.NRGBA   // Waveform color
	VolumeColor  color.NRGBA   // Volume bar color
	PauseColor   color.NRGBA   // Paused indicator color
	TextColor    color.NRGBA   // Text color
	TextDimColor color.NRGBA   // Dim text color
	AccentColor  color.NRGBA   // Accent color (playback progress)
	PanelColor   color.NRGBA   // Panel background
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Width:        360,
		Height:       120,
		RefreshRate:  33 * time.Millisecond, // ~30fps
		BGColor:      color.NRGBA{R: 30, G: 30, B: 34, A: 245},
		WaveColor:    color.NRGBA{R: 80, G: 200, B: 120, A: 255},
		VolumeColor:  color.NRGBA{R: 255, G: 100, B: 100, A: 255},
		PauseColor:   color.NRGBA{R: 255, G: 180, B: 0, A: 255},
		TextColor:    color.NRGBA{R: 240, G: 240, B: 245, A: 255},
		TextDimColor: color.NRGBA{R: 140, G: 140, B: 150, A: 255},
		AccentColor:  color.NRGBA{R: 88, G: 166, B: 255, A: 255},
		PanelColor:   color.NRGBA{R: 45, G: 45, B: 50, A: 255},
	}
}

// Window manages the floating waveform visualization.
type Window struct {
	mu        sync.Mutex
	provider  SampleProvider
	config    Config
	startTime time.Time // animation clock
	state     State

	// Timer display
	elapsed time.Duration
	limit   time.Duration

	// Finished clip
	clip    []float32
	clipDur time.Duration
	playPos time.Duration
	playing bool

	pauseBtn   widget.Clickable
	stopBtn    widget.Clickable
	playBtn    widget.Clickable
	saveBtn    widget.Clickable
	discardBtn widget.Clickable

	onPauseResume func()
	onStop        func()
	onPlayToggle  func()
	onSave        func()
	onDiscard     func()

	window  *app.Window
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a waveform window with the given sample provider.
func New(provider SampleProvider, cfg Config) *Window {
	return &Window{
		provider: provider,
		config:   cfg,
	}
}

// Show displays the waveform window (non-blocking).
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		// Window already visible - reset to recording state
		w.state = StateRecording
		w.startTime = time.Now()
		w.elapsed = 0
		w.clip = nil
		if w.window != nil {
			// Reset window size to normal recording size
			w.window.Option(app.Size(unit.Dp(w.config.Width), unit.Dp(w.config.Height)))
			w.window.Invalidate()
		}
		return
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.startTime = time.Now()
	w.state = StateRecording
	w.elapsed = 0
	w.clip = nil

	go w.runEventLoop()
}

// Hide closes the waveform window.
func (w *Window) Hide() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh := w.stopCh
	doneCh := w.doneCh
	w.stopCh = nil
	w.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}

	// Wait for window to close
	if doneCh != nil {
		select {
		case <-doneCh:
		case <-time.After(time.Second):
		}
	}
}

// SetState changes the window display state.
func (w *Window) SetState(state State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
	if w.window != nil {
		if state == StateFinished {
			// Taller window for playback controls
			w.window.Option(app.Size(unit.Dp(w.config.Width), unit.Dp(180)))
		} else {
			w.window.Option(app.Size(unit.Dp(w.config.Width), unit.Dp(w.config.Height)))
		}
		w.window.Invalidate()
	}
}

// SetElapsed updates the recorded time shown in the timer badge.
func (w *Window) SetElapsed(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.elapsed = d
}

// SetLimit sets the duration limit shown next to the timer (0 = unlimited).
func (w *Window) SetLimit(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.limit = d
}

// SetClip sets the finished clip for review.
func (w *Window) SetClip(samples []float32, duration time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clip = samples
	w.clipDur = duration
	w.playPos = 0
	w.playing = false
}

// SetPlayback updates playback position and state for the finished view.
func (w *Window) SetPlayback(pos time.Duration, playing bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playPos = pos
	w.playing = playing
}

// OnPauseResume sets the callback for the pause/resume button.
func (w *Window) OnPauseResume(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onPauseResume = fn
}

// OnStop sets the callback for the stop button.
func (w *Window) OnStop(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onStop = fn
}

// OnPlayToggle sets the callback for the play/pause button in review.
func (w *Window) OnPlayToggle(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onPlayToggle = fn
}

// OnSave sets the callback for the save button.
func (w *Window) OnSave(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onSave = fn
}

// OnDiscard sets the callback for discard (button or ESC).
func (w *Window) OnDiscard(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDiscard = fn
}

// IsVisible returns true if window is currently shown.
func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

const windowTitle = "Diktofon - Запись"

func (w *Window) runEventLoop() {
	defer close(w.doneCh)

	// Create window with options
	w.window = new(app.Window)
	w.window.Option(
		app.Title(windowTitle),
		app.Size(unit.Dp(w.config.Width), unit.Dp(w.config.Height)),
		app.Decorated(false), // Borderless
	)

	var ops op.Ops

	// Position window after it appears
	go positionWindow(w.config.Width, w.config.Height)

	// Timer for periodic redraws
	ticker := time.NewTicker(w.config.RefreshRate)
	defer ticker.Stop()

	// Invalidation and close goroutine
	go func() {
		for {
			select {
			case <-w.stopCh:
				// Close the window properly
				if w.window != nil {
					w.window.Perform(system.ActionClose)
				}
				return
			case <-ticker.C:
				if w.window != nil {
					w.window.Invalidate()
				}
			}
		}
	}()

	for {
		switch e := w.window.Event().(type) {
		case app.DestroyEvent:
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			w.mu.Lock()
			state := w.state
			w.mu.Unlock()

			// Draw the visualization
			w.draw(gtx, state)
			e.Frame(gtx.Ops)
		}
	}
}

func (w *Window) draw(gtx layout.Context, state State) image.Point {
	// Handle ESC key to discard and close window
	for {
		event, ok := gtx.Event(key.Filter{Name: key.NameEscape})
		if !ok {
			break
		}
		if e, ok := event.(key.Event); ok && e.State == key.Press {
			w.mu.Lock()
			discardFn := w.onDiscard
			w.mu.Unlock()
			if discardFn != nil {
				go discardFn()
			}
			go w.Hide()
			return gtx.Constraints.Max
		}
	}

	w.mu.Lock()
	elapsed := w.elapsed
	limit := w.limit
	clip := w.clip
	clipDur := w.clipDur
	playPos := w.playPos
	playing := w.playing
	animClock := time.Since(w.startTime)
	pauseResumeFn := w.onPauseResume
	stopFn := w.onStop
	playToggleFn := w.onPlayToggle
	saveFn := w.onSave
	discardFn := w.onDiscard
	w.mu.Unlock()

	switch state {
	case StateFinished:
		// Handle Space key for play/pause
		for {
			event, ok := gtx.Event(key.Filter{Name: key.NameSpace})
			if !ok {
				break
			}
			if e, ok := event.(key.Event); ok && e.State == key.Press {
				if playToggleFn != nil {
					go playToggleFn()
				}
			}
		}

		// Handle button clicks
		if w.playBtn.Clicked(gtx) && playToggleFn != nil {
			go playToggleFn()
		}
		if w.saveBtn.Clicked(gtx) && saveFn != nil {
			go saveFn()
		}
		if w.discardBtn.Clicked(gtx) {
			if discardFn != nil {
				go discardFn()
			}
			go w.Hide()
		}

		return drawFinishedView(gtx, w.config, clip, clipDur, playPos, playing,
			&w.playBtn, &w.saveBtn, &w.discardBtn)

	default:
		// Handle button clicks
		if w.pauseBtn.Clicked(gtx) && pauseResumeFn != nil {
			go pauseResumeFn()
		}
		if w.stopBtn.Clicked(gtx) && stopFn != nil {
			go stopFn()
		}

		// Get samples from provider; frozen while paused because the
		// recorder stops appending.
		var samples []float32
		if w.provider != nil {
			samples = w.provider.GetSamples()
		}
		return drawRecordingView(gtx, w.config, samples, elapsed, limit, animClock,
			state == StatePaused, &w.pauseBtn, &w.stopBtn)
	}
}
