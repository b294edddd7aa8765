// Package tray предоставляет системный трей с меню.
package tray

import (
	"diktofon/embedded"
	"diktofon/internal/i18n"

	"github.com/getlantern/systray"
)

// State представляет состояние записи для отображения в трее.
type State int

const (
	StateIdle State = iota
	StateRecording
	StatePaused
	StateFinished
)

// Callbacks содержит обработчики событий меню.
type Callbacks struct {
	OnStartStop           func()
	OnNotificationsToggle func() bool
	OnSettingsClick       func()
	OnHotkeyClick         func()
	OnQuit                func()
}

// Tray управляет иконкой в системном трее.
type Tray struct {
	callbacks   Callbacks
	status      *systray.MenuItem
	startStop   *systray.MenuItem
	notifyOn    *systray.MenuItem
	settingsBtn *systray.MenuItem
	hotkeyBtn   *systray.MenuItem
	quitBtn     *systray.MenuItem
}

// New создаёт новый Tray.
func New(callbacks Callbacks) *Tray {
	return &Tray{
		callbacks: callbacks,
	}
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(embedded.IconIdle)
	systray.SetTitle("Diktofon")
	systray.SetTooltip(i18n.T("app_tooltip"))

	// Статус
	t.status = systray.AddMenuItem(i18n.T("tray_ready"), "")
	t.status.Disable()

	systray.AddSeparator()

	// Начать/остановить запись
	t.startStop = systray.AddMenuItem(i18n.T("tray_start"), i18n.T("tray_start_hint"))

	systray.AddSeparator()

	// Уведомления
	t.notifyOn = systray.AddMenuItemCheckbox(i18n.T("tray_notifications"), i18n.T("tray_notifications_hint"), true)

	// Настройки
	t.settingsBtn = systray.AddMenuItem(i18n.T("tray_settings"), i18n.T("tray_settings_hint"))

	// Быстрая смена горячей клавиши без окна настроек
	t.hotkeyBtn = systray.AddMenuItem(i18n.T("tray_hotkey"), i18n.T("tray_hotkey_hint"))

	systray.AddSeparator()

	// Выход
	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	// Обработка событий меню
	go t.handleMenuEvents()
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		// Начать/остановить запись
		case <-t.startStop.ClickedCh:
			if t.callbacks.OnStartStop != nil {
				t.callbacks.OnStartStop()
			}

		// Уведомления
		case <-t.notifyOn.ClickedCh:
			if t.callbacks.OnNotificationsToggle != nil {
				enabled := t.callbacks.OnNotificationsToggle()
				if enabled {
					t.notifyOn.Check()
				} else {
					t.notifyOn.Uncheck()
				}
			}

		// Настройки
		case <-t.settingsBtn.ClickedCh:
			if t.callbacks.OnSettingsClick != nil {
				t.callbacks.OnSettingsClick()
			}

		// Горячая клавиша
		case <-t.hotkeyBtn.ClickedCh:
			if t.callbacks.OnHotkeyClick != nil {
				t.callbacks.OnHotkeyClick()
			}

		// Выход
		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
		}
	}
}

// SetState устанавливает состояние записи и обновляет иконку и меню.
func (t *Tray) SetState(state State) {
	switch state {
	case StateIdle:
		systray.SetIcon(embedded.IconIdle)
		systray.SetTooltip("Diktofon - " + i18n.T("tray_ready"))
		t.setStatus(i18n.T("tray_ready"))
		t.setStartStop(i18n.T("tray_start"), i18n.T("tray_start_hint"))
	case StateRecording:
		systray.SetIcon(embedded.IconRecording)
		systray.SetTooltip("Diktofon - " + i18n.T("tray_recording"))
		t.setStatus(i18n.T("tray_recording"))
		t.setStartStop(i18n.T("tray_stop"), i18n.T("tray_stop_hint"))
	case StatePaused:
		systray.SetIcon(embedded.IconPaused)
		systray.SetTooltip("Diktofon - " + i18n.T("tray_paused"))
		t.setStatus(i18n.T("tray_paused"))
		t.setStartStop(i18n.T("tray_stop"), i18n.T("tray_stop_hint"))
	case StateFinished:
		systray.SetIcon(embedded.IconIdle)
		systray.SetTooltip("Diktofon - " + i18n.T("tray_finished"))
		t.setStatus(i18n.T("tray_finished"))
		t.setStartStop(i18n.T("tray_start"), i18n.T("tray_start_hint"))
	}
}

func (t *Tray) setStatus(text string) {
	if t.status != nil {
		t.status.SetTitle(text)
	}
}

func (t *Tray) setStartStop(title, hint string) {
	if t.startStop != nil {
		t.startStop.SetTitle(title)
		t.startStop.SetTooltip(hint)
	}
}

func (t *Tray) onExit() {
	// Cleanup при выходе
}

// Quit закрывает системный трей.
func (t *Tray) Quit() {
	systray.Quit()
}

// RefreshUI обновляет все тексты меню на текущем языке.
func (t *Tray) RefreshUI() {
	systray.SetTooltip(i18n.T("app_tooltip"))

	if t.status != nil {
		t.status.SetTitle(i18n.T("tray_ready"))
	}
	if t.startStop != nil {
		t.startStop.SetTitle(i18n.T("tray_start"))
		t.startStop.SetTooltip(i18n.T("tray_start_hint"))
	}
	if t.notifyOn != nil {
		t.notifyOn.SetTitle(i18n.T("tray_notifications"))
		t.notifyOn.SetTooltip(i18n.T("tray_notifications_hint"))
	}
	if t.settingsBtn != nil {
		t.settingsBtn.SetTitle(i18n.T("tray_settings"))
		t.settingsBtn.SetTooltip(i18n.T("tray_settings_hint"))
	}
	if t.hotkeyBtn != nil {
		t.hotkeyBtn.SetTitle(i18n.T("tray_hotkey"))
		t.hotkeyBtn.SetTooltip(i18n.T("tray_hotkey_hint"))
	}
	if t.quitBtn != nil {
		t.quitBtn.SetTitle(i18n.T("tray_quit"))
		t.quitBtn.SetTooltip(i18n.T("tray_quit_hint"))
	}
}
