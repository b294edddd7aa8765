// Package app содержит основную логику приложения.
package app

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"diktofon/internal/audio"
	"diktofon/internal/config"
	"diktofon/internal/dialog"
	"diktofon/internal/hotkey"
	"diktofon/internal/i18n"
	"diktofon/internal/notify"
	"diktofon/internal/session"
	"diktofon/internal/settings"
	"diktofon/internal/tray"
	"diktofon/internal/waveform"
)

// App представляет главное приложение.
type App struct {
	mu          sync.Mutex
	config      *config.Config
	recorder    *audio.Recorder
	player      *audio.Player
	ctrl        *session.Controller
	notifier    *notify.Notifier
	tray        *tray.Tray
	hotkey      *hotkey.Handler
	waveformWin *waveform.Window
	settingsWin *settings.Window
}

// New создаёт новое приложение.
func New() (*App, error) {
	cfg := config.New()

	// Инициализируем язык интерфейса из конфига
	if uiLang := cfg.UILanguage(); uiLang != "" {
		i18n.SetLanguage(i18n.Language(uiLang))
	}

	recorder, err := audio.New()
	if err != nil {
		return nil, err
	}

	player := audio.NewPlayer()
	notifier := notify.New(cfg.NotificationsEnabled())

	app := &App{
		config:   cfg,
		recorder: recorder,
		player:   player,
		notifier: notifier,
	}

	// Создаём окно визуализации (recorder реализует SampleProvider)
	app.waveformWin = waveform.New(recorder, waveform.DefaultConfig())
	app.waveformWin.SetLimit(cfg.DurationLimit())

	app.buildSession()

	// Прогресс воспроизведения обновляет позицию в окне
	player.OnProgress(func(pos time.Duration) {
		app.waveformWin.SetPlayback(pos, true)
	})
	player.OnDone(func() {
		app.waveformWin.SetPlayback(0, false)
	})

	// Callback для паузы/продолжения записи
	app.waveformWin.OnPauseResume(func() {
		ctrl := app.controller()
		if ctrl == nil {
			return
		}
		if ctrl.State() == session.StateRecording {
			ctrl.Pause()
		} else {
			ctrl.Resume()
		}
	})

	// Callback для остановки записи
	app.waveformWin.OnStop(func() {
		if ctrl := app.controller(); ctrl != nil {
			ctrl.Stop()
		}
	})

	// Callback для прослушивания готовой записи
	app.waveformWin.OnPlayToggle(func() {
		ctrl := app.controller()
		if ctrl == nil {
			return
		}
		if err := ctrl.TogglePlayback(); err != nil {
			log.Printf("Ошибка воспроизведения: %v", err)
			app.notifier.Error(i18n.T("error_playback"))
			return
		}
		playing := app.player.IsPlaying() && !app.player.IsPaused()
		app.waveformWin.SetPlayback(app.player.Position(), playing)
	})

	// Callback для сохранения записи
	app.waveformWin.OnSave(func() {
		app.saveRecording()
	})

	// Callback для удаления записи (кнопка или ESC)
	app.waveformWin.OnDiscard(func() {
		if ctrl := app.controller(); ctrl != nil {
			ctrl.Reset()
		}
	})

	// Создаём обработчик горячих клавиш
	app.hotkey = hotkey.New(app.onHotkeyToggle)

	// Создаём окно настроек
	app.settingsWin = settings.New(cfg)
	app.settingsWin.OnApply(func(limit time.Duration) {
		app.config.SetDurationLimit(limit)
		app.waveformWin.SetLimit(limit)
		app.rebuildSession()
	})
	app.settingsWin.OnHotkeyChange(func(hk config.HotkeyConfig) {
		app.config.SetHotkey(hk)
		// Перерегистрируем горячую клавишу
		if err := app.hotkey.Register(hk); err != nil {
			log.Printf("Ошибка регистрации горячей клавиши: %v", err)
			app.notifier.Error(i18n.T("error_hotkey_register"))
		}
	})

	// Создаём системный трей с обработчиками
	app.tray = tray.New(tray.Callbacks{
		OnStartStop: app.onHotkeyToggle,
		OnNotificationsToggle: func() bool {
			enabled := app.config.ToggleNotifications()
			app.notifier.SetEnabled(enabled)
			return enabled
		},
		OnSettingsClick: func() {
			app.settingsWin.Show()
		},
		OnHotkeyClick: app.changeHotkeyViaDialog,
		OnQuit: func() {
			app.Close()
		},
	})

	// Callback для смены языка UI - обновляем трей
	app.settingsWin.OnUILangChange(func(lang i18n.Language) {
		app.tray.RefreshUI()
	})

	return app, nil
}

// Run запускает приложение.
func (a *App) Run() {
	a.tray.Run(func() {
		// Регистрируем горячую клавишу после инициализации трея
		hk := a.config.Hotkey()
		if err := a.hotkey.Register(hk); err != nil {
			log.Printf("Ошибка регистрации горячей клавиши: %v", err)
			a.notifier.Error(i18n.T("error_hotkey_register"))
		}
		a.notifier.Info(i18n.T("notify_ready"))
	})
}

// changeHotkeyViaDialog меняет горячую клавишу через системный диалог.
// Запасной путь из меню трея - работает и там, где gio-окно настроек
// недоступно.
func (a *App) changeHotkeyViaDialog() {
	hk, err := dialog.SelectHotkey(a.config.Hotkey())
	if err != nil {
		return // Пользователь отменил
	}
	a.config.SetHotkey(hk)
	if err := a.hotkey.Register(hk); err != nil {
		log.Printf("Ошибка регистрации горячей клавиши: %v", err)
		a.notifier.Error(i18n.T("error_hotkey_register"))
		return
	}
	dialog.ShowInfo(i18n.T("dialog_hotkey_title"), i18n.T("settings_hotkey")+": "+hk.String())
}

// controller возвращает текущий контроллер сеанса.
func (a *App) controller() *session.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl
}

// buildSession создаёт контроллер сеанса из текущих настроек.
func (a *App) buildSession() {
	opts := session.Options{
		Limit:        a.config.DurationLimit(),
		TickInterval: a.config.TickInterval(),
		SampleRate:   audio.SampleRate,
	}
	cb := session.Callbacks{
		OnState:    a.onSessionState,
		OnTick:     a.waveformWin.SetElapsed,
		OnFinished: a.onFinished,
	}

	a.mu.Lock()
	a.ctrl = session.New(a.recorder, a.player, opts, cb)
	a.mu.Unlock()
}

// rebuildSession пересоздаёт контроллер после смены настроек.
// Действующая запись при этом завершается.
func (a *App) rebuildSession() {
	a.mu.Lock()
	old := a.ctrl
	a.mu.Unlock()

	if old != nil {
		old.Close()
	}
	a.buildSession()
}

func (a *App) onSessionState(st session.State) {
	switch st {
	case session.StateRecording:
		a.tray.SetState(tray.StateRecording)
		a.waveformWin.SetState(waveform.StateRecording)
	case session.StatePaused:
		a.tray.SetState(tray.StatePaused)
		a.waveformWin.SetState(waveform.StatePaused)
		a.notifier.Paused()
	case session.StateFinished:
		a.tray.SetState(tray.StateFinished)
		a.waveformWin.SetState(waveform.StateFinished)
	case session.StateIdle:
		a.tray.SetState(tray.StateIdle)
		a.waveformWin.Hide()
	}
}

func (a *App) onFinished(art *session.Artifact) {
	ctrl := a.controller()
	if ctrl == nil {
		return
	}
	if limit := ctrl.Limit(); limit > 0 && ctrl.Elapsed() >= limit {
		a.notifier.LimitReached()
	} else {
		a.notifier.Finished()
	}
	a.waveformWin.SetClip(art.Samples, art.Duration)
}

// onHotkeyToggle обрабатывает горячую клавишу и кнопку в трее.
func (a *App) onHotkeyToggle() {
	ctrl := a.controller()
	if ctrl == nil {
		return
	}

	switch ctrl.State() {
	case session.StateIdle:
		a.startRecording(ctrl)
	case session.StateRecording, session.StatePaused:
		ctrl.Stop()
	case session.StateFinished:
		// Несохранённая запись отбрасывается, начинаем новую
		ctrl.Reset()
		a.startRecording(ctrl)
	}
}

func (a *App) startRecording(ctrl *session.Controller) {
	if err := ctrl.Start(); err != nil {
		log.Printf("Ошибка начала записи: %v", err)
		a.notifier.Error(i18n.T("error_recording"))
		return
	}
	a.waveformWin.SetLimit(ctrl.Limit())
	a.waveformWin.Show()
	a.notifier.Recording()
}

// saveRecording сохраняет готовую запись через диалог выбора файла.
func (a *App) saveRecording() {
	ctrl := a.controller()
	if ctrl == nil {
		return
	}
	art := ctrl.Artifact()
	if art == nil {
		return
	}

	defaultName := "memo-" + time.Now().Format("2006-01-02-150405") + ".wav"
	path, err := dialog.SaveRecording(a.config.SaveDir(), defaultName)
	if err != nil {
		// Пользователь отменил
		return
	}

	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		log.Printf("Ошибка сохранения файла: %v", err)
		a.notifier.Error(i18n.T("error_save"))
		dialog.ShowError(i18n.T("notify_error"), i18n.T("error_save"))
		return
	}

	a.config.SetSaveDir(filepath.Dir(path))
	a.notifier.Saved(path)

	// После сохранения сеанс возвращается в исходное состояние
	ctrl.Reset()
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	a.mu.Lock()
	ctrl := a.ctrl
	a.ctrl = nil
	a.mu.Unlock()

	if a.hotkey != nil {
		a.hotkey.Unregister()
	}

	if ctrl != nil {
		ctrl.Close()
	}

	if a.recorder != nil {
		a.recorder.Close()
	}

	if a.waveformWin != nil {
		a.waveformWin.Hide()
	}

	if a.settingsWin != nil {
		a.settingsWin.Hide()
	}
}
