package settings

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"diktofon/internal/config"
	"diktofon/internal/i18n"
)

// Color palette - modern dark theme
var (
	colorBG         = color.NRGBA{R: 30, G: 30, B: 34, A: 255}
	colorPanel      = color.NRGBA{R: 45, G: 45, B: 50, A: 255}
	colorPanelLight = color.NRGBA{R: 55, G: 55, B: 62, A: 255}
	colorText       = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	colorTextDim    = color.NRGBA{R: 140, G: 140, B: 150, A: 255}
	colorAccent     = color.NRGBA{R: 88, G: 166, B: 255, A: 255}
	colorWarning    = color.NRGBA{R: 255, G: 180, B: 0, A: 255}
)

func (w *Window) draw(gtx layout.Context) layout.Dimensions {
	// Fill background
	rect := clip.Rect{Max: gtx.Constraints.Max}
	paint.FillShape(gtx.Ops, colorBG, rect.Op())

	// Main layout with padding
	return layout.UniformInset(unit.Dp(20)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			// Title (fixed)
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawTitle(gtx)
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),

			// Scrollable content area
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				th := material.NewTheme()
				return material.List(th, &w.contentList).Layout(gtx, 1, func(gtx layout.Context, _ int) layout.Dimensions {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
						// Duration limit section
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							return w.drawLimitSection(gtx)
						}),

						layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),

						// Hotkey section
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							return w.drawHotkeySection(gtx)
						}),

						layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),

						// UI Language section
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							return w.drawUILanguageSection(gtx)
						}),
					)
				})
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),

			// Buttons (fixed at bottom)
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawButtons(gtx)
			}),
		)
	})
}

func (w *Window) drawTitle(gtx layout.Context) layout.Dimensions {
	th := material.NewTheme()
	th.Palette.Fg = colorText

	label := material.Label(th, unit.Sp(22), i18n.T("settings_title"))
	label.Font.Weight = font.Bold
	return label.Layout(gtx)
}

func (w *Window) drawSectionHeader(gtx layout.Context, text string) layout.Dimensions {
	th := material.NewTheme()
	th.Palette.Fg = colorTextDim

	label := material.Label(th, unit.Sp(12), text)
	label.Font.Weight = font.Medium
	return label.Layout(gtx)
}

// formatLimit returns a preset label like "0:30" or "5 min".
func formatLimit(d time.Duration) string {
	if d == 0 {
		return i18n.T("settings_limit_unlimited")
	}
	if d < time.Minute {
		return fmt.Sprintf("0:%02d", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d min", int(d.Minutes()))
	}
	return fmt.Sprintf("%d h", int(d.Hours()))
}

func (w *Window) drawLimitSection(gtx layout.Context) layout.Dimensions {
	selected := w.getSelectedLimit()

	return w.drawPanel(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			// Section header
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawSectionHeader(gtx, i18n.T("settings_limit"))
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),

			// Preset chips
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				var items []layout.FlexChild
				for _, d := range config.DurationLimitPresets() {
					preset := d // capture
					items = append(items,
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							return layout.Inset{Right: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
								return w.drawChip(gtx, w.limitButtons[preset], formatLimit(preset), selected == preset)
							})
						}),
					)
				}
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, items...)
			}),
		)
	})
}

func (w *Window) drawHotkeySection(gtx layout.Context) layout.Dimensions {
	isRecording := w.isRecordingHotkey()

	return w.drawPanel(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			// Section header
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawSectionHeader(gtx, i18n.T("settings_hotkey"))
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),

			// Hotkey display and edit button
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					// Current hotkey preview
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return w.drawHotkeyPreview(gtx, isRecording)
					}),

					layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),

					// Edit button
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						if isRecording {
							return w.drawButton(gtx, &w.hotkeyEditBtn, i18n.T("settings_hotkey_cancel"), colorWarning, colorText)
						}
						return w.drawButton(gtx, &w.hotkeyEditBtn, i18n.T("settings_hotkey_edit"), colorAccent, colorText)
					}),
				)
			}),
		)
	})
}

func (w *Window) drawHotkeyPreview(gtx layout.Context, isRecording bool) layout.Dimensions {
	var hotkeyStr string
	var textColor color.NRGBA
	var bgColor color.NRGBA

	if isRecording {
		// Show recording state
		mods, key := w.getRecordingState()
		parts := buildHotkeyParts(mods, key)

		if len(parts) > 0 {
			for i, p := range parts {
				if i > 0 {
					hotkeyStr += " + "
				}
				hotkeyStr += p
			}
		} else {
			hotkeyStr = i18n.T("settings_hotkey_prompt")
		}
		textColor = colorWarning
		bgColor = color.NRGBA{R: 80, G: 60, B: 20, A: 255}
	} else {
		// Show current hotkey
		mods, key := w.getHotkeyState()
		parts := buildHotkeyParts(mods, key)

		if len(parts) > 0 {
			for i, p := range parts {
				if i > 0 {
					hotkeyStr += " + "
				}
				hotkeyStr += p
			}
		} else {
			hotkeyStr = i18n.T("settings_hotkey_not_set")
		}
		textColor = colorAccent
		bgColor = colorPanelLight
	}

	// Record content to measure size
	macro := op.Record(gtx.Ops)
	dims := layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		th := material.NewTheme()
		th.Palette.Fg = textColor
		label := material.Label(th, unit.Sp(16), "⌨  "+hotkeyStr)
		label.Font.Weight = font.Medium
		return label.Layout(gtx)
	})
	call := macro.Stop()

	// Draw background with measured size
	rr := gtx.Dp(unit.Dp(8))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, bgColor, rect.Op(gtx.Ops))

	// Replay content
	call.Add(gtx.Ops)

	return dims
}

func buildHotkeyParts(mods map[config.Modifier]bool, key config.Key) []string {
	parts := []string{}
	if mods[config.ModCtrl] {
		parts = append(parts, "Ctrl")
	}
	if mods[config.ModShift] {
		parts = append(parts, "Shift")
	}
	if mods[config.ModAlt] {
		parts = append(parts, "Alt")
	}
	if mods[config.ModSuper] {
		parts = append(parts, "Super")
	}
	if key != "" {
		name := string(key)
		switch key {
		case config.KeySpace:
			name = "Space"
		case config.KeyReturn:
			name = "Return"
		case config.KeyTab:
			name = "Tab"
		default:
			if len(name) == 1 {
				name = string(name[0] - 32) // uppercase
			}
		}
		parts = append(parts, name)
	}
	return parts
}

func (w *Window) drawUILanguageSection(gtx layout.Context) layout.Dimensions {
	selectedLang := w.getSelectedUILang()

	return w.drawPanel(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			// Section header
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawSectionHeader(gtx, i18n.T("settings_ui_language"))
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),

			// Language buttons
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return w.drawChip(gtx, w.getLangButton(i18n.RU), i18n.LanguageName(i18n.RU), selectedLang == i18n.RU)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return w.drawChip(gtx, w.getLangButton(i18n.EN), i18n.LanguageName(i18n.EN), selectedLang == i18n.EN)
					}),
				)
			}),
		)
	})
}

// drawChip draws a selectable chip button.
func (w *Window) drawChip(gtx layout.Context, btn *widget.Clickable, label string, selected bool) layout.Dimensions {
	bgColor := colorPanelLight
	textColor := colorTextDim
	if selected {
		bgColor = colorAccent
		textColor = colorText
	}

	// Record content to measure size
	macro := op.Record(gtx.Ops)
	dims := material.Clickable(gtx, btn, func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{
			Top: unit.Dp(8), Bottom: unit.Dp(8),
			Left: unit.Dp(12), Right: unit.Dp(12),
		}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			th := material.NewTheme()
			th.Palette.Fg = textColor
			lbl := material.Label(th, unit.Sp(13), label)
			lbl.Font.Weight = font.Medium
			return lbl.Layout(gtx)
		})
	})
	call := macro.Stop()

	// Draw background
	rr := gtx.Dp(unit.Dp(6))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, bgColor, rect.Op(gtx.Ops))

	// Replay content
	call.Add(gtx.Ops)

	return dims
}

// drawPanel draws rounded panel with the given content.
func (w *Window) drawPanel(gtx layout.Context, content layout.Widget) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	dims := layout.UniformInset(unit.Dp(16)).Layout(gtx, content)
	call := macro.Stop()

	// Draw background with content size
	rr := gtx.Dp(unit.Dp(12))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, colorPanel, rect.Op(gtx.Ops))

	// Replay content drawing
	call.Add(gtx.Ops)

	return dims
}

func (w *Window) drawButtons(gtx layout.Context) layout.Dimensions {
	return layout.Flex{
		Axis:      layout.Horizontal,
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Dimensions{}
		}),

		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return w.drawButton(gtx, &w.cancelBtn, i18n.T("settings_cancel"), colorPanel, colorText)
		}),

		layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),

		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return w.drawButton(gtx, &w.applyBtn, i18n.T("settings_apply"), colorAccent, colorText)
		}),
	)
}

func (w *Window) drawButton(gtx layout.Context, btn *widget.Clickable, label string, bgColor, textColor color.NRGBA) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	dims := material.Clickable(gtx, btn, func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{
			Top: unit.Dp(10), Bottom: unit.Dp(10),
			Left: unit.Dp(20), Right: unit.Dp(20),
		}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			th := material.NewTheme()
			th.Palette.Fg = textColor
			lbl := material.Label(th, unit.Sp(14), label)
			lbl.Font.Weight = font.Medium
			return lbl.Layout(gtx)
		})
	})
	call := macro.Stop()

	rr := gtx.Dp(unit.Dp(8))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, bgColor, rect.Op(gtx.Ops))

	call.Add(gtx.Ops)
	return dims
}
