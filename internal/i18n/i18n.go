// Package i18n provides internationalization support.
package i18n

import "sync"

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = RU // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	RU: {
		// App
		"app_name":    "Diktofon",
		"app_tooltip": "Diktofon - запись голосовых заметок",

		// Tray menu
		"tray_ready":              "Готов к записи",
		"tray_recording":          "Запись...",
		"tray_paused":             "Пауза",
		"tray_finished":           "Запись готова",
		"tray_start":              "Начать запись",
		"tray_start_hint":         "Начать новую запись",
		"tray_stop":               "Остановить запись",
		"tray_stop_hint":          "Завершить текущую запись",
		"tray_notifications":      "Уведомления",
		"tray_notifications_hint": "Показывать уведомления",
		"tray_settings":           "Настройки...",
		"tray_settings_hint":      "Лимит записи, горячая клавиша, язык",
		"tray_hotkey":             "Горячая клавиша...",
		"tray_hotkey_hint":        "Быстрая смена горячей клавиши записи",
		"tray_quit":               "Выход",
		"tray_quit_hint":          "Закрыть приложение",

		// Notifications
		"notify_recording":      "Запись...",
		"notify_recording_hint": "Говорите в микрофон",
		"notify_paused":         "Пауза",
		"notify_paused_hint":    "Запись приостановлена",
		"notify_finished":       "Запись готова",
		"notify_finished_hint":  "Прослушайте и сохраните",
		"notify_limit":          "Достигнут лимит записи",
		"notify_limit_hint":     "Запись остановлена автоматически",
		"notify_saved":          "Сохранено",
		"notify_error":          "Ошибка",
		"notify_ready":          "Diktofon готов к работе",

		// Waveform window
		"waveform_recording": "Запись",
		"waveform_paused":    "Пауза",
		"waveform_finished":  "Готово",
		"waveform_pause":     "Пауза",
		"waveform_resume":    "Продолжить",
		"waveform_stop":      "Стоп",
		"waveform_play":      "Слушать",
		"waveform_playpause": "Пауза",
		"waveform_save":      "Сохранить",
		"waveform_discard":   "Удалить",

		// Settings window
		"settings_title":           "Настройки",
		"settings_limit":           "Ограничение длительности",
		"settings_limit_unlimited": "Без ограничения",
		"settings_hotkey":          "Горячая клавиша",
		"settings_hotkey_hint":     "Начать/остановить запись",
		"settings_hotkey_edit":     "Изменить",
		"settings_hotkey_cancel":   "Отмена",
		"settings_hotkey_prompt":   "Нажмите комбинацию клавиш...",
		"settings_hotkey_not_set":  "Не задана",
		"settings_ui_language":     "Язык интерфейса",
		"settings_apply":           "Применить",
		"settings_cancel":          "Отмена",
		"settings_key":             "Клавиша:",

		// Dialogs
		"dialog_save_title":         "Сохранить запись",
		"dialog_hotkey_title":       "Настройка горячей клавиши",
		"dialog_hotkey_mods_prompt": "Выберите модификаторы:",
		"dialog_hotkey_key_prompt":  "Выберите клавишу:",

		// Errors
		"error_recording":       "Ошибка записи. Проверьте микрофон.",
		"error_playback":        "Ошибка воспроизведения",
		"error_save":            "Не удалось сохранить файл",
		"error_hotkey_register": "Не удалось зарегистрировать горячую клавишу",
		"error_hotkey_no_mods":  "Нужно выбрать хотя бы один модификатор",
	},

	EN: {
		// App
		"app_name":    "Diktofon",
		"app_tooltip": "Diktofon - voice memo recorder",

		// Tray menu
		"tray_ready":              "Ready to record",
		"tray_recording":          "Recording...",
		"tray_paused":             "Paused",
		"tray_finished":           "Recording ready",
		"tray_start":              "Start recording",
		"tray_start_hint":         "Begin a new recording",
		"tray_stop":               "Stop recording",
		"tray_stop_hint":          "Finish the current recording",
		"tray_notifications":      "Notifications",
		"tray_notifications_hint": "Show notifications",
		"tray_settings":           "Settings...",
		"tray_settings_hint":      "Recording limit, hotkey, language",
		"tray_hotkey":             "Hotkey...",
		"tray_hotkey_hint":        "Quickly change the recording hotkey",
		"tray_quit":               "Quit",
		"tray_quit_hint":          "Close application",

		// Notifications
		"notify_recording":      "Recording...",
		"notify_recording_hint": "Speak into the microphone",
		"notify_paused":         "Paused",
		"notify_paused_hint":    "Recording is paused",
		"notify_finished":       "Recording ready",
		"notify_finished_hint":  "Listen and save",
		"notify_limit":          "Recording limit reached",
		"notify_limit_hint":     "Recording stopped automatically",
		"notify_saved":          "Saved",
		"notify_error":          "Error",
		"notify_ready":          "Diktofon is ready",

		// Waveform window
		"waveform_recording": "Recording",
		"waveform_paused":    "Paused",
		"waveform_finished":  "Done",
		"waveform_pause":     "Pause",
		"waveform_resume":    "Resume",
		"waveform_stop":      "Stop",
		"waveform_play":      "Play",
		"waveform_playpause": "Pause",
		"waveform_save":      "Save",
		"waveform_discard":   "Discard",

		// Settings window
		"settings_title":           "Settings",
		"settings_limit":           "Duration limit",
		"settings_limit_unlimited": "Unlimited",
		"settings_hotkey":          "Hotkey",
		"settings_hotkey_hint":     "Start/stop recording",
		"settings_hotkey_edit":     "Change",
		"settings_hotkey_cancel":   "Cancel",
		"settings_hotkey_prompt":   "Press a key combination...",
		"settings_hotkey_not_set":  "Not set",
		"settings_ui_language":     "Interface language",
		"settings_apply":           "Apply",
		"settings_cancel":          "Cancel",
		"settings_key":             "Key:",

		// Dialogs
		"dialog_save_title":         "Save recording",
		"dialog_hotkey_title":       "Hotkey setup",
		"dialog_hotkey_mods_prompt": "Select modifiers:",
		"dialog_hotkey_key_prompt":  "Select a key:",

		// Errors
		"error_recording":       "Recording error. Check your microphone.",
		"error_playback":        "Playback error",
		"error_save":            "Could not save the file",
		"error_hotkey_register": "Could not register hotkey",
		"error_hotkey_no_mods":  "Select at least one modifier",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to key itself
	return key
}

// SetLanguage sets the current UI language.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	current = lang
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{RU, EN}
}

// LanguageName returns display name for a language.
func LanguageName(lang Language) string {
	switch lang {
	case RU:
		return "Русский"
	case EN:
		return "English"
	default:
		return string(lang)
	}
}
