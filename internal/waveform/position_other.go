//go:build !linux

package waveform

// positionWindow is a stub for non-Linux platforms: gio creates the
// window at the system default position and no always-on-top hint is set.
func positionWindow(width, height int) {
}
