// Package config предоставляет конфигурацию приложения с сохранением в файл.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Modifier представляет модификатор клавиши.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super" // Win/Cmd
)

// Key представляет клавишу.
type Key string

const (
	KeySpace  Key = "space"
	KeyReturn Key = "return"
	KeyTab    Key = "tab"
	KeyA      Key = "a"
	KeyB      Key = "b"
	KeyC      Key = "c"
	KeyD      Key = "d"
	KeyE      Key = "e"
	KeyF      Key = "f"
	KeyG      Key = "g"
	KeyH      Key = "h"
	KeyI      Key = "i"
	KeyJ      Key = "j"
	KeyK      Key = "k"
	KeyL      Key = "l"
	KeyM      Key = "m"
	KeyN      Key = "n"
	KeyO      Key = "o"
	KeyP      Key = "p"
	KeyQ      Key = "q"
	KeyR      Key = "r"
	KeyS      Key = "s"
	KeyT      Key = "t"
	KeyU      Key = "u"
	KeyV      Key = "v"
	KeyW      Key = "w"
	KeyX      Key = "x"
	KeyY      Key = "y"
	KeyZ      Key = "z"
	KeyF1     Key = "f1"
	KeyF2     Key = "f2"
	KeyF3     Key = "f3"
	KeyF4     Key = "f4"
	KeyF5     Key = "f5"
	KeyF6     Key = "f6"
	KeyF7     Key = "f7"
	KeyF8     Key = "f8"
	KeyF9     Key = "f9"
	KeyF10    Key = "f10"
	KeyF11    Key = "f11"
	KeyF12    Key = "f12"
)

// HotkeyConfig хранит настройки горячей клавиши.
type HotkeyConfig struct {
	Modifiers []Modifier `json:"modifiers"`
	Key       Key        `json:"key"`
}

// String возвращает строковое представление горячей клавиши.
func (h HotkeyConfig) String() string {
	result := ""
	for _, m := range h.Modifiers {
		if result != "" {
			result += "+"
		}
		result += string(m)
	}
	if result != "" {
		result += "+"
	}
	result += string(h.Key)
	return result
}

// configData структура для сериализации.
type configData struct {
	DurationLimitSec int          `json:"duration_limit_sec"` // 0 - без ограничения
	TickIntervalMs   int          `json:"tick_interval_ms,omitempty"`
	Notifications    bool         `json:"notifications"`
	Hotkey           HotkeyConfig `json:"hotkey"`
	UILanguage       string       `json:"ui_language,omitempty"`
	SaveDir          string       `json:"save_dir,omitempty"`
}

// Config хранит настройки приложения.
type Config struct {
	mu            sync.RWMutex
	durationLimit time.Duration
	tickInterval  time.Duration
	notifications bool
	hotkey        HotkeyConfig
	uiLanguage    string
	saveDir       string
	configPath    string
}

// New создаёт конфигурацию, загружая из файла или с настройками по умолчанию.
func New() *Config {
	c := &Config{
		durationLimit: 0, // без ограничения
		tickInterval:  time.Second,
		notifications: true,
		uiLanguage:    "ru", // По умолчанию русский интерфейс
		hotkey: HotkeyConfig{
			Modifiers: []Modifier{ModCtrl, ModShift},
			Key:       KeyR,
		},
	}

	// Папка сохранения по умолчанию - домашняя директория
	if home, err := os.UserHomeDir(); err == nil {
		c.saveDir = home
	}

	// Определяем путь к файлу конфигурации рядом с бинарником
	execPath, err := os.Executable()
	if err == nil {
		// Резолвим симлинки
		execPath, err = filepath.EvalSymlinks(execPath)
		if err == nil {
			execDir := filepath.Dir(execPath)
			c.configPath = filepath.Join(execDir, "config.json")
		}
	}

	// Пытаемся загрузить конфигурацию
	c.load()

	return c
}

// load загружает конфигурацию из файла.
func (c *Config) load() {
	if c.configPath == "" {
		return
	}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return // Файл не существует, используем defaults
	}

	var cfg configData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return
	}

	if cfg.DurationLimitSec > 0 {
		c.durationLimit = time.Duration(cfg.DurationLimitSec) * time.Second
	}
	if cfg.TickIntervalMs > 0 {
		c.tickInterval = time.Duration(cfg.TickIntervalMs) * time.Millisecond
	}
	c.notifications = cfg.Notifications
	if cfg.Hotkey.Key != "" {
		c.hotkey = cfg.Hotkey
	}
	if cfg.UILanguage != "" {
		c.uiLanguage = cfg.UILanguage
	}
	if cfg.SaveDir != "" {
		c.saveDir = cfg.SaveDir
	}
}

// save сохраняет конфигурацию в файл.
func (c *Config) save() {
	if c.configPath == "" {
		return
	}

	cfg := configData{
		DurationLimitSec: int(c.durationLimit / time.Second),
		Notifications:    c.notifications,
		Hotkey:           c.hotkey,
		UILanguage:       c.uiLanguage,
		SaveDir:          c.saveDir,
	}
	if c.tickInterval != time.Second {
		cfg.TickIntervalMs = int(c.tickInterval / time.Millisecond)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return
	}

	os.WriteFile(c.configPath, data, 0644)
}

// DurationLimit возвращает ограничение длительности записи (0 - без ограничения).
func (c *Config) DurationLimit() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.durationLimit
}

// SetDurationLimit устанавливает ограничение длительности записи.
func (c *Config) SetDurationLimit(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.durationLimit = d
	c.save()
}

// TickInterval возвращает период тиков таймера записи.
func (c *Config) TickInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickInterval
}

// SetNotifications включает/выключает уведомления.
func (c *Config) SetNotifications(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = enabled
	c.save()
}

// ToggleNotifications переключает состояние уведомлений.
func (c *Config) ToggleNotifications() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = !c.notifications
	c.save()
	return c.notifications
}

// NotificationsEnabled возвращает true если уведомления включены.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notifications
}

// Hotkey возвращает текущую горячую клавишу.
func (c *Config) Hotkey() HotkeyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hotkey
}

// SetHotkey устанавливает горячую клавишу.
func (c *Config) SetHotkey(hk HotkeyConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hotkey = hk
	c.save()
}

// UILanguage возвращает язык интерфейса.
func (c *Config) UILanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.uiLanguage
}

// SetUILanguage устанавливает язык интерфейса.
func (c *Config) SetUILanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uiLanguage = lang
	c.save()
}

// SaveDir возвращает папку сохранения записей по умолчанию.
func (c *Config) SaveDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saveDir
}

// SetSaveDir устанавливает папку сохранения записей.
func (c *Config) SetSaveDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveDir = dir
	c.save()
}

// AvailableModifiers возвращает список доступных модификаторов.
func AvailableModifiers() []Modifier {
	return []Modifier{ModCtrl, ModShift, ModAlt, ModSuper}
}

// AvailableKeys возвращает список доступных клавиш.
func AvailableKeys() []Key {
	return []Key{
		KeySpace, KeyReturn, KeyTab,
		KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
		KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
		KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12,
	}
}

// DurationLimitPresets возвращает варианты ограничения длительности
// для диалога настроек. 0 - без ограничения.
func DurationLimitPresets() []time.Duration {
	return []time.Duration{
		0,
		30 * time.Second,
		time.Minute,
		5 * time.Minute,
		15 * time.Minute,
		time.Hour,
	}
}
