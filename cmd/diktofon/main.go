// Diktofon - кроссплатформенный диктофон в системном трее.
//
// Запись голосовых заметок по горячей клавише Ctrl+Shift+R
// с паузой, ограничением длительности и сохранением в WAV.
package main

import (
	"log"
	"os"

	"diktofon/internal/app"
	"diktofon/internal/hotkey"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Printf("Diktofon %s запускается...", Version)

	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	hotkey.RunOnMainThread(run)
}

func run() {
	application, err := app.New()
	if err != nil {
		log.Printf("Ошибка инициализации: %v", err)
		os.Exit(1)
	}

	log.Println("Приложение запущено. Нажмите Ctrl+Shift+R для записи.")
	application.Run()
}
