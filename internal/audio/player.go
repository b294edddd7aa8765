package audio

import (
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Player воспроизводит записанные сэмплы через устройство вывода по умолчанию.
// Устроен зеркально Recorder: тот же цикл с mutex и done-каналом.
type Player struct {
	mu         sync.Mutex
	stream     *portaudio.Stream
	buffer     []float32
	samples    []float32
	pos        int
	playing    bool
	paused     bool
	done       chan struct{}
	onProgress func(time.Duration)
	onDone     func()
}

// NewPlayer создаёт новый Player.
// portaudio уже инициализирован Recorder'ом, повторный Initialize не нужен.
func NewPlayer() *Player {
	return &Player{
		buffer: make([]float32, FramesPerBuffer),
	}
}

// OnProgress устанавливает callback текущей позиции воспроизведения.
func (p *Player) OnProgress(fn func(time.Duration)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onProgress = fn
}

// OnDone устанавливает callback завершения воспроизведения.
func (p *Player) OnDone(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDone = fn
}

// Play начинает воспроизведение сэмплов с начала.
// Если воспроизведение уже идёт, оно перезапускается.
func (p *Player) Play(samples []float32) error {
	p.Stop()

	p.mu.Lock()

	stream, err := portaudio.OpenDefaultStream(
		0,               // input channels
		Channels,        // output channels
		SampleRate,      // sample rate
		FramesPerBuffer, // frames per buffer
		p.buffer,        // buffer
	)
	if err != nil {
		p.mu.Unlock()
		return err
	}

	p.stream = stream
	p.samples = samples
	p.pos = 0
	p.playing = true
	p.paused = false
	p.done = make(chan struct{})

	if err := stream.Start(); err != nil {
		stream.Close()
		p.stream = nil
		p.playing = false
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	go p.playLoop()

	return nil
}

func (p *Player) playLoop() {
	defer func() {
		close(p.done)
	}()

	for {
		p.mu.Lock()
		if !p.playing {
			p.mu.Unlock()
			return
		}
		if p.paused {
			p.mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			continue
		}

		stream := p.stream
		if stream == nil {
			p.mu.Unlock()
			return
		}

		// Конец записи - закрываем поток здесь же, Stop уже ничего не сделает
		if p.pos >= len(p.samples) {
			p.playing = false
			p.stream = nil
			doneFn := p.onDone
			p.mu.Unlock()

			stream.Stop()
			stream.Close()
			if doneFn != nil {
				doneFn()
			}
			return
		}

		// Следующий кусок, хвост добиваем тишиной
		n := copy(p.buffer, p.samples[p.pos:])
		for i := n; i < len(p.buffer); i++ {
			p.buffer[i] = 0
		}
		p.pos += n
		pos := p.pos
		progressFn := p.onProgress
		p.mu.Unlock()

		if err := stream.Write(); err != nil {
			// Underrun не критичен, продолжаем
			p.mu.Lock()
			playing := p.playing
			p.mu.Unlock()
			if !playing {
				return
			}
		}

		if progressFn != nil {
			progressFn(time.Duration(pos) * time.Second / SampleRate)
		}
	}
}

// Pause приостанавливает воспроизведение.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.paused = true
	}
}

// Resume продолжает воспроизведение с текущей позиции.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.paused = false
	}
}

// IsPlaying возвращает true если идёт воспроизведение (включая паузу).
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// IsPaused возвращает true если воспроизведение на паузе.
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing && p.paused
}

// Position возвращает текущую позицию воспроизведения.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Duration(p.pos) * time.Second / SampleRate
}

// Stop останавливает воспроизведение и освобождает поток.
func (p *Player) Stop() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}

	p.playing = false
	p.paused = false
	stream := p.stream
	p.stream = nil
	done := p.done
	p.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	if stream != nil {
		stream.Stop()
		stream.Close()
	}
}
