// Package audio предоставляет запись аудио с микрофона и воспроизведение.
package audio

import (
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate - частота дискретизации. 16kHz mono достаточно для голосовых заметок.
	SampleRate = 16000
	// Channels - количество каналов (mono).
	Channels = 1
	// FramesPerBuffer - размер буфера.
	FramesPerBuffer = 1024
)

// Recorder записывает аудио с микрофона.
// Pause не закрывает поток: данные продолжают читаться и отбрасываются,
// чтобы Resume продолжил ту же запись без переоткрытия устройства.
type Recorder struct {
	mu      sync.Mutex
	stream  *portaudio.Stream
	buffer  []float32
	samples []float32
	running bool
	paused  bool
	done    chan struct{}
}

// New создаёт новый Recorder.
func New() (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	r := &Recorder{
		buffer: make([]float32, FramesPerBuffer),
	}

	return r, nil
}

// Start начинает запись аудио.
// Ошибка (нет устройства, нет доступа) возвращается вызывающему,
// состояние Recorder при этом не меняется.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	r.samples = make([]float32, 0, SampleRate*30) // Буфер на 30 сек
	r.done = make(chan struct{})

	stream, err := portaudio.OpenDefaultStream(
		Channels,        // input channels
		0,               // output channels
		SampleRate,      // sample rate
		FramesPerBuffer, // frames per buffer
		r.buffer,        // buffer
	)
	if err != nil {
		return err
	}

	r.stream = stream
	r.running = true
	r.paused = false

	if err := stream.Start(); err != nil {
		r.stream.Close()
		r.stream = nil
		r.running = false
		return err
	}

	go r.recordLoop()

	return nil
}

func (r *Recorder) recordLoop() {
	defer func() {
		close(r.done)
	}()

	for {
		r.mu.Lock()
		if !r.running {
			r.mu.Unlock()
			return
		}
		stream := r.stream
		r.mu.Unlock()

		if stream == nil {
			return
		}

		// Проверяем доступность данных с таймаутом
		available, err := stream.AvailableToRead()
		if err != nil {
			r.mu.Lock()
			running := r.running
			r.mu.Unlock()
			if !running {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if available == 0 {
			// Нет данных - проверяем running и ждём
			r.mu.Lock()
			running := r.running
			r.mu.Unlock()
			if !running {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if err := stream.Read(); err != nil {
			r.mu.Lock()
			running := r.running
			r.mu.Unlock()
			if !running {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		r.mu.Lock()
		// На паузе данные прочитаны и отброшены, буфер устройства не переполняется
		if r.running && !r.paused {
			bufCopy := make([]float32, len(r.buffer))
			copy(bufCopy, r.buffer)
			r.samples = append(r.samples, bufCopy...)
		}
		r.mu.Unlock()
	}
}

// Pause приостанавливает накопление сэмплов.
func (r *Recorder) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.paused = true
	}
}

// Resume возобновляет накопление сэмплов после паузы.
func (r *Recorder) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.paused = false
	}
}

// Stop останавливает запись и возвращает записанные сэмплы.
// Повторный вызов возвращает nil.
func (r *Recorder) Stop() []float32 {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}

	r.running = false
	r.paused = false
	stream := r.stream
	r.stream = nil
	samples := r.samples
	r.samples = nil
	done := r.done
	r.mu.Unlock()

	// Ждём завершения recordLoop (максимум 100ms - он проверяет running каждые 10ms)
	if done != nil {
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	// Закрываем stream после завершения recordLoop
	if stream != nil {
		stream.Stop()
		stream.Close()
	}

	return samples
}

// Close освобождает ресурсы.
func (r *Recorder) Close() {
	r.Stop()
	portaudio.Terminate()
}

// IsRecording возвращает true если идёт запись (включая паузу).
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// IsPaused возвращает true если запись на паузе.
func (r *Recorder) IsPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running && r.paused
}

// GetSamples возвращает копию текущих записанных сэмплов без остановки записи.
// Используется для отрисовки волны.
func (r *Recorder) GetSamples() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || len(r.samples) == 0 {
		return nil
	}

	// Возвращаем копию чтобы не было race condition
	samples := make([]float32, len(r.samples))
	copy(samples, r.samples)
	return samples
}
