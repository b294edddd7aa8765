// Package notify предоставляет системные уведомления.
package notify

import (
	"diktofon/internal/i18n"

	"github.com/gen2brain/beeep"
)

const appName = "Diktofon"

// Notifier отправляет системные уведомления.
type Notifier struct {
	enabled bool
}

// New создаёт новый Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// SetEnabled включает/выключает уведомления.
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// Recording показывает уведомление о начале записи.
func (n *Notifier) Recording() {
	n.notify(i18n.T("notify_recording"), i18n.T("notify_recording_hint"))
}

// Paused показывает уведомление о паузе.
func (n *Notifier) Paused() {
	n.notify(i18n.T("notify_paused"), i18n.T("notify_paused_hint"))
}

// Finished показывает уведомление о готовой записи.
func (n *Notifier) Finished() {
	n.notify(i18n.T("notify_finished"), i18n.T("notify_finished_hint"))
}

// LimitReached показывает уведомление об автостопе по лимиту.
func (n *Notifier) LimitReached() {
	n.notify(i18n.T("notify_limit"), i18n.T("notify_limit_hint"))
}

// Saved показывает уведомление о сохранении файла.
func (n *Notifier) Saved(path string) {
	n.notify(i18n.T("notify_saved"), path)
}

// Error показывает уведомление об ошибке.
func (n *Notifier) Error(msg string) {
	n.notify(i18n.T("notify_error"), msg)
}

// Info показывает информационное уведомление.
func (n *Notifier) Info(msg string) {
	if len(msg) > 100 {
		msg = msg[:100] + "..."
	}
	n.notify("", msg)
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled {
		return
	}
	// Игнорируем ошибки уведомлений - они не критичны
	if title != "" {
		_ = beeep.Notify(appName+": "+title, message, "")
	} else {
		_ = beeep.Notify(appName, message, "")
	}
}
