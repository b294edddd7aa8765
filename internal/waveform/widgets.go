package waveform

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"diktofon/internal/i18n"
)

// drawRecordingView draws the live visualization during recording or pause.
func drawRecordingView(gtx layout.Context, cfg Config, samples []float32, elapsed, limit time.Duration, animClock time.Duration, paused bool, pauseBtn, stopBtn *widget.Clickable) image.Point {
	// Fill background
	drawBackground(gtx, cfg.BGColor)

	statusText := i18n.T("waveform_recording")
	pauseText := i18n.T("waveform_pause")
	if paused {
		statusText = i18n.T("waveform_paused")
		pauseText = i18n.T("waveform_resume")
	}

	// Main content with padding
	layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			// Top row: indicator + status + timer
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					// Recording dot or pause bars
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						if paused {
							return drawPauseBars(gtx, cfg.PauseColor)
						}
						return drawRecordingDot(gtx, animClock, cfg.VolumeColor)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					// Status text
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						th := material.NewTheme()
						th.Palette.Fg = cfg.TextColor
						lbl := material.Label(th, unit.Sp(14), statusText)
						lbl.Font.Weight = font.Medium
						return lbl.Layout(gtx)
					}),
					// Spacer
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return layout.Dimensions{}
					}),
					// Timer
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return drawTimerBadge(gtx, elapsed, limit, cfg)
					}),
				)
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),

			// Waveform area
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return drawWaveformPanel(gtx, samples, cfg)
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),

			// Buttons row
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceEvenly}.Layout(gtx,
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return drawActionButton(gtx, pauseBtn, cfg, cfg.PauseColor, pauseText)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(10)}.Layout),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return drawActionButton(gtx, stopBtn, cfg, cfg.VolumeColor, i18n.T("waveform_stop"))
					}),
				)
			}),
		)
	})

	return gtx.Constraints.Max
}

// drawFinishedView draws the clip review with playback controls.
func drawFinishedView(gtx layout.Context, cfg Config, clip []float32, clipDur, playPos time.Duration, playing bool, playBtn, saveBtn, discardBtn *widget.Clickable) image.Point {
	// Fill background
	drawBackground(gtx, cfg.BGColor)

	playText := i18n.T("waveform_play")
	if playing {
		playText = i18n.T("waveform_playpause")
	}

	layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			// Top row: title + playback time
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						th := material.NewTheme()
						th.Palette.Fg = cfg.TextColor
						lbl := material.Label(th, unit.Sp(14), i18n.T("waveform_finished"))
						lbl.Font.Weight = font.Medium
						return lbl.Layout(gtx)
					}),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return layout.Dimensions{}
					}),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return drawTimerBadge(gtx, playPos, clipDur, cfg)
					}),
				)
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),

			// Static clip waveform with playback overlay
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return drawClipPanel(gtx, clip, clipDur, playPos, cfg)
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),

			// Buttons row: play/pause, save, discard
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceEvenly}.Layout(gtx,
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return drawActionButton(gtx, playBtn, cfg, cfg.AccentColor, playText)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(10)}.Layout),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return drawActionButton(gtx, saveBtn, cfg, cfg.WaveColor, i18n.T("waveform_save"))
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(10)}.Layout),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return drawActionButton(gtx, discardBtn, cfg, cfg.VolumeColor, i18n.T("waveform_discard"))
					}),
				)
			}),
		)
	})

	return gtx.Constraints.Max
}

// drawBackground draws a rectangle background.
func drawBackground(gtx layout.Context, col color.NRGBA) {
	rect := clip.Rect{Max: gtx.Constraints.Max}
	paint.FillShape(gtx.Ops, col, rect.Op())
}

// drawRecordingDot draws a pulsing recording indicator.
func drawRecordingDot(gtx layout.Context, elapsed time.Duration, col color.NRGBA) layout.Dimensions {
	size := gtx.Dp(unit.Dp(10))

	// Pulsing effect
	pulse := float32(math.Sin(float64(elapsed.Milliseconds())/200.0)*0.3 + 0.7)
	alpha := uint8(float32(col.A) * pulse)
	pulseCol := color.NRGBA{R: col.R, G: col.G, B: col.B, A: alpha}

	// Draw dot
	center := size / 2
	circle := clip.Ellipse{
		Min: image.Pt(0, 0),
		Max: image.Pt(size, size),
	}
	paint.FillShape(gtx.Ops, pulseCol, circle.Op(gtx.Ops))

	return layout.Dimensions{Size: image.Pt(size, size+center/2)}
}

// drawPauseBars draws two vertical pause bars.
func drawPauseBars(gtx layout.Context, col color.NRGBA) layout.Dimensions {
	size := gtx.Dp(unit.Dp(10))
	barW := size / 3

	left := clip.Rect{
		Min: image.Pt(0, 0),
		Max: image.Pt(barW, size),
	}
	paint.FillShape(gtx.Ops, col, left.Op())

	right := clip.Rect{
		Min: image.Pt(size-barW, 0),
		Max: image.Pt(size, size),
	}
	paint.FillShape(gtx.Ops, col, right.Op())

	return layout.Dimensions{Size: image.Pt(size, size)}
}

// formatDuration formats a duration as m:ss.
func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// drawTimerBadge draws the elapsed time in a badge.
// With a non-zero limit the badge shows "elapsed / limit".
func drawTimerBadge(gtx layout.Context, elapsed, limit time.Duration, cfg Config) layout.Dimensions {
	timeText := formatDuration(elapsed)
	if limit > 0 {
		timeText += " / " + formatDuration(limit)
	}

	// Record content to measure
	macro := op.Record(gtx.Ops)
	dims := layout.Inset{
		Top: unit.Dp(4), Bottom: unit.Dp(4),
		Left: unit.Dp(10), Right: unit.Dp(10),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		th := material.NewTheme()
		th.Palette.Fg = cfg.TextColor
		lbl := material.Label(th, unit.Sp(13), timeText)
		lbl.Font.Weight = font.Bold
		return lbl.Layout(gtx)
	})
	call := macro.Stop()

	// Draw background
	rr := gtx.Dp(unit.Dp(6))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, cfg.PanelColor, rect.Op(gtx.Ops))

	call.Add(gtx.Ops)
	return dims
}

// drawWaveformPanel draws the waveform in a panel.
func drawWaveformPanel(gtx layout.Context, samples []float32, cfg Config) layout.Dimensions {
	// Draw panel background
	rr := gtx.Dp(unit.Dp(8))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: image.Pt(gtx.Constraints.Max.X, gtx.Constraints.Max.Y)},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, cfg.PanelColor, rect.Op(gtx.Ops))

	// Draw waveform inside panel with padding
	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			// Volume bar
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Max.X = gtx.Dp(unit.Dp(20))
				gtx.Constraints.Min.X = gtx.Constraints.Max.X
				return drawVolumeBar(gtx, samples, cfg)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			// Waveform
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return drawWaveform(gtx, samples, cfg.WaveColor)
			}),
		)
	})
}

// calculateRMS computes root mean square of samples for volume level.
func calculateRMS(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}

	// Use only last 1024 samples for responsiveness
	start := 0
	if len(samples) > 1024 {
		start = len(samples) - 1024
	}
	subset := samples[start:]

	var sum float64
	for _, s := range subset {
		sum += float64(s) * float64(s)
	}

	rms := float32(math.Sqrt(sum / float64(len(subset))))

	// Normalize to 0-1 range (typical speech is around 0.1-0.3 RMS)
	level := rms * 3
	if level > 1 {
		level = 1
	}
	return level
}

// drawVolumeBar renders vertical volume indicator.
func drawVolumeBar(gtx layout.Context, samples []float32, cfg Config) layout.Dimensions {
	level := calculateRMS(samples)
	width := gtx.Constraints.Max.X
	height := gtx.Constraints.Max.Y

	// Background
	rr := gtx.Dp(unit.Dp(4))
	bgRect := clip.RRect{
		Rect: image.Rectangle{Max: image.Pt(width, height)},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, color.NRGBA{R: 35, G: 35, B: 40, A: 255}, bgRect.Op(gtx.Ops))

	// Active bar (from bottom)
	barHeight := int(level * float32(height))
	if barHeight > 0 {
		barRect := clip.RRect{
			Rect: image.Rectangle{
				Min: image.Pt(2, height-barHeight),
				Max: image.Pt(width-2, height-2),
			},
			NE: rr - 1, NW: rr - 1, SE: rr - 1, SW: rr - 1,
		}
		barColor := cfg.VolumeColor
		if level > 0.7 {
			barColor = color.NRGBA{R: 255, G: 80, B: 80, A: 255} // Red for high volume
		} else if level > 0.4 {
			barColor = color.NRGBA{R: 255, G: 180, B: 0, A: 255} // Yellow for medium
		} else {
			barColor = cfg.WaveColor // Green for normal
		}
		paint.FillShape(gtx.Ops, barColor, barRect.Op(gtx.Ops))
	}

	return layout.Dimensions{Size: image.Pt(width, height)}
}

// drawWaveform renders oscilloscope-style waveform.
func drawWaveform(gtx layout.Context, samples []float32, col color.NRGBA) layout.Dimensions {
	width := float32(gtx.Constraints.Max.X)
	height := float32(gtx.Constraints.Max.Y)
	centerY := height / 2

	// Draw center line (dim)
	centerLine := clip.Rect{
		Min: image.Pt(0, int(centerY)),
		Max: image.Pt(int(width), int(centerY)+1),
	}
	paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 60, B: 65, A: 255}, centerLine.Op())

	if len(samples) < 2 {
		return layout.Dimensions{Size: image.Pt(int(width), int(height))}
	}

	// Use only last N samples that fit the width
	displaySamples := samples
	maxSamples := int(width)
	if len(samples) > maxSamples {
		displaySamples = samples[len(samples)-maxSamples:]
	}

	// Build path for waveform
	var path clip.Path
	path.Begin(gtx.Ops)

	step := width / float32(len(displaySamples))
	for i, sample := range displaySamples {
		x := float32(i) * step
		y := centerY - (sample * centerY * 0.85)

		if i == 0 {
			path.MoveTo(f32.Pt(x, y))
		} else {
			path.LineTo(f32.Pt(x, y))
		}
	}

	// Stroke the path
	paint.FillShape(gtx.Ops, col, clip.Stroke{
		Path:  path.End(),
		Width: 2,
	}.Op())

	return layout.Dimensions{Size: image.Pt(int(width), int(height))}
}

// drawClipPanel draws the full clip as amplitude bars with playback overlay.
func drawClipPanel(gtx layout.Context, samples []float32, clipDur, playPos time.Duration, cfg Config) layout.Dimensions {
	// Panel background
	rr := gtx.Dp(unit.Dp(8))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: image.Pt(gtx.Constraints.Max.X, gtx.Constraints.Max.Y)},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, cfg.PanelColor, rect.Op(gtx.Ops))

	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		width := gtx.Constraints.Max.X
		height := gtx.Constraints.Max.Y
		centerY := float32(height) / 2

		if len(samples) == 0 || width <= 0 {
			return layout.Dimensions{Size: image.Pt(width, height)}
		}

		// Playback progress position in pixels
		progressX := 0
		if clipDur > 0 {
			frac := float64(playPos) / float64(clipDur)
			if frac > 1 {
				frac = 1
			}
			progressX = int(frac * float64(width))
		}

		// Peak per pixel column over the whole clip
		bucket := len(samples) / width
		if bucket < 1 {
			bucket = 1
		}
		for x := 0; x < width; x++ {
			start := x * len(samples) / width
			end := start + bucket
			if end > len(samples) {
				end = len(samples)
			}
			var peak float32
			for _, s := range samples[start:end] {
				if s < 0 {
					s = -s
				}
				if s > peak {
					peak = s
				}
			}
			barH := peak * centerY * 0.9
			if barH < 1 {
				barH = 1
			}
			col := cfg.WaveColor
			if x <= progressX {
				col = cfg.AccentColor // Played portion
			}
			bar := clip.Rect{
				Min: image.Pt(x, int(centerY-barH)),
				Max: image.Pt(x+1, int(centerY+barH)),
			}
			paint.FillShape(gtx.Ops, col, bar.Op())
		}

		// Position line
		line := clip.Rect{
			Min: image.Pt(progressX, 0),
			Max: image.Pt(progressX+1, height),
		}
		paint.FillShape(gtx.Ops, cfg.TextColor, line.Op())

		return layout.Dimensions{Size: image.Pt(width, height)}
	})
}

// drawActionButton draws an action button with text.
func drawActionButton(gtx layout.Context, btn *widget.Clickable, cfg Config, bgColor color.NRGBA, text string) layout.Dimensions {
	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		// Hover effect
		currentBg := bgColor
		if btn.Hovered() {
			// Darken on hover
			currentBg = color.NRGBA{
				R: uint8(float32(bgColor.R) * 0.85),
				G: uint8(float32(bgColor.G) * 0.85),
				B: uint8(float32(bgColor.B) * 0.85),
				A: bgColor.A,
			}
		}

		// Record content to measure
		macro := op.Record(gtx.Ops)
		dims := layout.Inset{
			Top: unit.Dp(8), Bottom: unit.Dp(8),
			Left: unit.Dp(10), Right: unit.Dp(10),
		}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				th := material.NewTheme()
				th.Palette.Fg = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
				lbl := material.Label(th, unit.Sp(13), text)
				lbl.Font.Weight = font.Medium
				return lbl.Layout(gtx)
			})
		})
		call := macro.Stop()

		// Draw button background
		rr := gtx.Dp(unit.Dp(8))
		btnRect := clip.RRect{
			Rect: image.Rectangle{Max: image.Pt(gtx.Constraints.Max.X, dims.Size.Y)},
			NE:   rr, NW: rr, SE: rr, SW: rr,
		}
		paint.FillShape(gtx.Ops, currentBg, btnRect.Op(gtx.Ops))

		call.Add(gtx.Ops)
		return layout.Dimensions{Size: image.Pt(gtx.Constraints.Max.X, dims.Size.Y)}
	})
}
