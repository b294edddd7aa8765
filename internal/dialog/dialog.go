// Package dialog предоставляет GUI диалоги для настройки приложения.
package dialog

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"

	"diktofon/internal/config"
	"diktofon/internal/i18n"
)

// modifierLabel возвращает подпись модификатора для списка выбора.
func modifierLabel(m config.Modifier) string {
	switch m {
	case config.ModCtrl:
		return "Ctrl"
	case config.ModShift:
		return "Shift"
	case config.ModAlt:
		return "Alt"
	case config.ModSuper:
		return "Super (Win/Cmd)"
	}
	return string(m)
}

// keyLabel возвращает подпись клавиши для списка выбора.
func keyLabel(k config.Key) string {
	switch k {
	case config.KeySpace:
		return "Space"
	case config.KeyReturn:
		return "Return"
	case config.KeyTab:
		return "Tab"
	}
	return strings.ToUpper(string(k))
}

// SelectHotkey открывает пошаговый диалог выбора горячей клавиши записи.
// Запасной путь из меню трея на случай, когда окно настроек недоступно.
// Возвращает выбранную конфигурацию или ошибку если пользователь отменил.
func SelectHotkey(current config.HotkeyConfig) (config.HotkeyConfig, error) {
	// Шаг 1: Выбор модификаторов
	mods := config.AvailableModifiers()
	modOptions := make([]string, len(mods))
	for i, m := range mods {
		modOptions[i] = modifierLabel(m)
	}
	currentMods := make([]string, 0, len(current.Modifiers))
	for _, m := range current.Modifiers {
		currentMods = append(currentMods, modifierLabel(m))
	}

	selectedMods, err := zenity.ListMultiple(
		i18n.T("dialog_hotkey_mods_prompt"),
		modOptions,
		zenity.Title(i18n.T("dialog_hotkey_title")),
		zenity.DefaultItems(currentMods...),
	)
	if err != nil {
		return current, err // Пользователь отменил
	}
	if len(selectedMods) == 0 {
		return current, errors.New(i18n.T("error_hotkey_no_mods"))
	}

	newMods := make([]config.Modifier, 0, len(selectedMods))
	for _, s := range selectedMods {
		for i, opt := range modOptions {
			if s == opt {
				newMods = append(newMods, mods[i])
				break
			}
		}
	}

	// Шаг 2: Выбор клавиши
	keys := config.AvailableKeys()
	keyOptions := make([]string, len(keys))
	for i, k := range keys {
		keyOptions[i] = keyLabel(k)
	}

	selectedKey, err := zenity.List(
		i18n.T("dialog_hotkey_key_prompt"),
		keyOptions,
		zenity.Title(i18n.T("dialog_hotkey_title")),
		zenity.DefaultItems(keyLabel(current.Key)),
	)
	if err != nil {
		return current, err // Пользователь отменил
	}

	newKey := current.Key
	for i, opt := range keyOptions {
		if selectedKey == opt {
			newKey = keys[i]
			break
		}
	}

	return config.HotkeyConfig{
		Modifiers: newMods,
		Key:       newKey,
	}, nil
}

// SaveRecording открывает диалог сохранения WAV файла.
// defaultName подставляется как имя по умолчанию в каталоге dir.
// Возвращает выбранный путь или ошибку если пользователь отменил.
func SaveRecording(dir, defaultName string) (string, error) {
	path, err := zenity.SelectFileSave(
		zenity.Title(i18n.T("dialog_save_title")),
		zenity.Filename(filepath.Join(dir, defaultName)),
		zenity.ConfirmOverwrite(),
		zenity.FileFilter{
			Name:     "WAV",
			Patterns: []string{"*.wav"},
		},
	)
	if err != nil {
		return "", err // Пользователь отменил
	}
	if !strings.HasSuffix(strings.ToLower(path), ".wav") {
		path += ".wav"
	}
	return path, nil
}

// ShowInfo показывает информационное сообщение.
func ShowInfo(title, message string) {
	zenity.Info(message, zenity.Title(title))
}

// ShowError показывает сообщение об ошибке.
func ShowError(title, message string) {
	zenity.Error(message, zenity.Title(title))
}
