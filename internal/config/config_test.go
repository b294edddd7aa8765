package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	c := &Config{
		durationLimit: 0,
		tickInterval:  time.Second,
		notifications: true,
		uiLanguage:    "ru",
		hotkey: HotkeyConfig{
			Modifiers: []Modifier{ModCtrl, ModShift},
			Key:       KeyR,
		},
		configPath: filepath.Join(t.TempDir(), "config.json"),
	}
	return c
}

func TestSaveLoadRoundtrip(t *testing.T) {
	c := newTestConfig(t)

	c.SetDurationLimit(5 * time.Minute)
	c.SetNotifications(false)
	c.SetUILanguage("en")
	c.SetHotkey(HotkeyConfig{Modifiers: []Modifier{ModAlt}, Key: KeySpace})
	c.SetSaveDir("/tmp/records")

	// Загружаем в свежий экземпляр с теми же defaults
	loaded := newTestConfig(t)
	loaded.configPath = c.configPath
	loaded.load()

	if got := loaded.DurationLimit(); got != 5*time.Minute {
		t.Errorf("duration limit: %v", got)
	}
	if loaded.NotificationsEnabled() {
		t.Error("notifications should be off")
	}
	if got := loaded.UILanguage(); got != "en" {
		t.Errorf("ui language: %q", got)
	}
	if got := loaded.Hotkey().String(); got != "alt+space" {
		t.Errorf("hotkey: %q", got)
	}
	if got := loaded.SaveDir(); got != "/tmp/records" {
		t.Errorf("save dir: %q", got)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	c := newTestConfig(t)
	c.load()

	if got := c.DurationLimit(); got != 0 {
		t.Errorf("duration limit: %v", got)
	}
	if !c.NotificationsEnabled() {
		t.Error("notifications should default to on")
	}
	if got := c.Hotkey().Key; got != KeyR {
		t.Errorf("hotkey key: %q", got)
	}
}

func TestLoadCorruptFileKeepsDefaults(t *testing.T) {
	c := newTestConfig(t)
	if err := os.WriteFile(c.configPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	c.load()

	if got := c.DurationLimit(); got != 0 {
		t.Errorf("duration limit: %v", got)
	}
	if got := c.UILanguage(); got != "ru" {
		t.Errorf("ui language: %q", got)
	}
}

func TestSetDurationLimitClampsNegative(t *testing.T) {
	c := newTestConfig(t)
	c.SetDurationLimit(-time.Minute)
	if got := c.DurationLimit(); got != 0 {
		t.Errorf("negative limit not clamped: %v", got)
	}
}

func TestHotkeyString(t *testing.T) {
	hk := HotkeyConfig{Modifiers: []Modifier{ModCtrl, ModShift}, Key: KeyR}
	if got := hk.String(); got != "ctrl+shift+r" {
		t.Errorf("got %q", got)
	}
}
