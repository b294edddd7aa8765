// Package session содержит конечный автомат сеанса записи.
//
// Controller владеет состоянием сеанса, учётом прошедшего времени и
// ограничением длительности. Устройства записи и воспроизведения он
// получает снаружи и не создаёт сам.
package session

import (
	"sync"
	"time"

	"diktofon/internal/wav"
)

// State представляет состояние сеанса записи.
type State int

const (
	StateIdle State = iota
	StateRecording
	StatePaused
	StateFinished
)

// String возвращает имя состояния для логов.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Capture - абстракция устройства записи (реализуется audio.Recorder).
type Capture interface {
	Start() error
	Pause()
	Resume()
	// Stop завершает запись и возвращает накопленные сэмплы.
	Stop() []float32
}

// Playback - абстракция воспроизведения готовой записи (реализуется audio.Player).
type Playback interface {
	Play(samples []float32) error
	Pause()
	Resume()
	Stop()
	IsPlaying() bool
	IsPaused() bool
}

// Artifact - готовая запись. Создаётся ровно один раз за цикл записи
// и сбрасывается только через Reset.
type Artifact struct {
	Data     []byte // WAV
	MIME     string
	Duration time.Duration
	Samples  []float32 // для отрисовки волны и воспроизведения
}

// Callbacks содержит обработчики событий сеанса.
// Вызываются последовательно, вне внутреннего mutex.
type Callbacks struct {
	OnState    func(State)
	OnTick     func(elapsed time.Duration)
	OnFinished func(*Artifact)
}

// Options задаёт конфигурацию сеанса. Изменение конфигурации требует
// пересоздания Controller (старый закрывается через Close).
type Options struct {
	// Limit - максимальная длительность записи. 0 - без ограничения.
	Limit time.Duration
	// TickInterval - период тиков таймера. По умолчанию 1 секунда.
	TickInterval time.Duration
	// SampleRate - частота дискретизации сэмплов от Capture.
	SampleRate int
}

// DefaultTickInterval - период тиков по умолчанию.
const DefaultTickInterval = time.Second

// Controller управляет жизненным циклом одной записи:
// Idle -> Recording <-> Paused -> Finished -> Idle.
// Недопустимые переходы молча игнорируются и не доходят до устройства.
type Controller struct {
	mu        sync.Mutex
	capture   Capture
	playback  Playback
	callbacks Callbacks

	limit      time.Duration
	interval   time.Duration
	sampleRate int

	state     State
	accrued   time.Duration // накоплено до последней паузы/остановки
	resumedAt time.Time     // момент старта или возобновления
	artifact  *Artifact

	starting  bool // Start в процессе - остальные команды отклоняются
	finishing bool // финализация уже запущена (защита от двойного stop)
	closed    bool // Close вызван - результаты в полёте отбрасываются

	stopCh chan struct{}
	doneCh chan struct{}

	// Подменяются в тестах
	clock     func() time.Time
	newTicker func(time.Duration) (<-chan time.Time, func())
}

// New создаёт Controller поверх устройств записи и воспроизведения.
// playback может быть nil - тогда воспроизведение недоступно.
func New(capture Capture, playback Playback, opts Options, cb Callbacks) *Controller {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Controller{
		capture:    capture,
		playback:   playback,
		callbacks:  cb,
		limit:      opts.Limit,
		interval:   interval,
		sampleRate: opts.SampleRate,
		state:      StateIdle,
		clock:      time.Now,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// State возвращает текущее состояние сеанса.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Limit возвращает ограничение длительности (0 - без ограничения).
func (c *Controller) Limit() time.Duration {
	return c.limit
}

// Elapsed возвращает длительность записи на текущий момент.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked()
}

func (c *Controller) elapsedLocked() time.Duration {
	// После начала финализации accrued уже содержит всё прошедшее время,
	// хотя state может ещё оставаться Recording до её завершения.
	if c.state == StateRecording && !c.finishing {
		return c.accrued + c.clock().Sub(c.resumedAt)
	}
	return c.accrued
}

// Artifact возвращает готовую запись или nil если её ещё нет.
func (c *Controller) Artifact() *Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.artifact
}

// Start начинает новую запись: Idle -> Recording.
// При ошибке устройства состояние остаётся Idle, ошибка возвращается
// вызывающему и можно пробовать снова.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.state != StateIdle || c.starting || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.starting = true
	c.mu.Unlock()

	// Открытие устройства может занять время (запрос доступа к микрофону),
	// поэтому вызываем без блокировки. Команды в это время отклоняет starting.
	err := c.capture.Start()

	c.mu.Lock()
	c.starting = false
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if c.closed {
		// Close успел пройти, пока устройство открывалось
		c.mu.Unlock()
		c.capture.Stop()
		return nil
	}

	c.accrued = 0
	c.artifact = nil
	c.finishing = false
	c.resumedAt = c.clock()
	c.state = StateRecording
	c.startTickerLocked()
	cb := c.callbacks.OnState
	c.mu.Unlock()

	if cb != nil {
		cb(StateRecording)
	}
	return nil
}

// Pause приостанавливает запись: Recording -> Paused.
// Таймер останавливается сразу, прошедшее время замораживается.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.state != StateRecording || c.starting || c.finishing {
		c.mu.Unlock()
		return
	}
	c.accrued += c.clock().Sub(c.resumedAt)
	c.state = StatePaused
	stop := c.takeTickerLocked()
	cb := c.callbacks.OnState
	c.mu.Unlock()

	c.waitTicker(stop)
	c.capture.Pause()
	if cb != nil {
		cb(StatePaused)
	}
}

// Resume возобновляет запись: Paused -> Recording.
// Счёт времени продолжается с замороженного значения.
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.state != StatePaused || c.starting || c.finishing {
		c.mu.Unlock()
		return
	}
	c.resumedAt = c.clock()
	c.state = StateRecording
	c.startTickerLocked()
	cb := c.callbacks.OnState
	c.mu.Unlock()

	c.capture.Resume()
	if cb != nil {
		cb(StateRecording)
	}
}

// Stop завершает запись: Recording/Paused -> Finished.
// Идемпотентен: если финализация уже идёт (в том числе по достижению
// лимита), повторный вызов ничего не делает.
func (c *Controller) Stop() {
	c.mu.Lock()
	if (c.state != StateRecording && c.state != StatePaused) || c.starting || c.finishing {
		c.mu.Unlock()
		return
	}
	c.finishing = true
	if c.state == StateRecording {
		c.accrued += c.clock().Sub(c.resumedAt)
	}
	stop := c.takeTickerLocked()
	c.mu.Unlock()

	c.waitTicker(stop)
	c.finish()
}

// finish - единый путь финализации для Stop и автостопа по лимиту.
// К этому моменту finishing уже выставлен, таймер остановлен,
// accrued заморожен.
func (c *Controller) finish() {
	samples := c.capture.Stop()

	c.mu.Lock()
	if c.closed {
		// Close прошёл во время финализации - результат отбрасывается,
		// сеанс не воскресает
		c.finishing = false
		c.mu.Unlock()
		return
	}
	art := &Artifact{
		Data:     wav.Encode(samples, c.sampleRate, 1),
		MIME:     wav.MIMEType,
		Duration: c.accrued,
		Samples:  samples,
	}
	c.artifact = art
	c.state = StateFinished
	c.finishing = false
	cbState := c.callbacks.OnState
	cbFin := c.callbacks.OnFinished
	c.mu.Unlock()

	if cbState != nil {
		cbState(StateFinished)
	}
	if cbFin != nil {
		cbFin(art)
	}
}

// Reset сбрасывает завершённый сеанс: Finished -> Idle.
// Запись и состояние воспроизведения удаляются.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.state != StateFinished || c.starting {
		c.mu.Unlock()
		return
	}
	playback := c.playback
	c.artifact = nil
	c.accrued = 0
	c.state = StateIdle
	cb := c.callbacks.OnState
	c.mu.Unlock()

	if playback != nil {
		playback.Stop()
	}
	if cb != nil {
		cb(StateIdle)
	}
}

// TogglePlayback запускает воспроизведение готовой записи или ставит
// его на паузу. Работает только в состоянии Finished и не влияет на
// состояние сеанса.
func (c *Controller) TogglePlayback() error {
	c.mu.Lock()
	if c.state != StateFinished || c.playback == nil || c.artifact == nil {
		c.mu.Unlock()
		return nil
	}
	playback := c.playback
	samples := c.artifact.Samples
	c.mu.Unlock()

	switch {
	case !playback.IsPlaying():
		return playback.Play(samples)
	case playback.IsPaused():
		playback.Resume()
	default:
		playback.Pause()
	}
	return nil
}

// Close детерминированно освобождает ресурсы: отменяет таймер,
// останавливает запись (результат отбрасывается) и воспроизведение.
// После Close использовать Controller нельзя.
func (c *Controller) Close() {
	c.mu.Lock()
	// Если финализация уже в полёте, устройство остановит finish -
	// второй Stop устройству не нужен, а результат отбросит флаг closed.
	active := (c.state == StateRecording || c.state == StatePaused) && !c.finishing
	playback := c.playback
	c.closed = true
	c.artifact = nil
	c.accrued = 0
	c.state = StateIdle
	stop := c.takeTickerLocked()
	c.mu.Unlock()

	c.waitTicker(stop)
	if active {
		c.capture.Stop() // результат не нужен
	}
	if playback != nil {
		playback.Stop()
	}
}

// startTickerLocked запускает цикл тиков. Вызывается под mutex.
func (c *Controller) startTickerLocked() {
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	go c.tickLoop(c.stopCh, c.doneCh)
}

// takeTickerLocked забирает каналы текущего цикла тиков и закрывает
// stopCh. Вызывается под mutex, ожидание - через waitTicker уже без него.
func (c *Controller) takeTickerLocked() chan struct{} {
	if c.stopCh == nil {
		return nil
	}
	close(c.stopCh)
	done := c.doneCh
	c.stopCh = nil
	c.doneCh = nil
	return done
}

// waitTicker ждёт завершения цикла тиков, чтобы после выхода из
// Recording не прилетел лишний тик.
func (c *Controller) waitTicker(done chan struct{}) {
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(time.Second):
	}
}

func (c *Controller) tickLoop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	tick, stop := c.newTicker(c.interval)
	defer stop()

	for {
		select {
		case <-stopCh:
			return
		case <-tick:
			if c.onTick() {
				return
			}
		}
	}
}

// onTick обрабатывает один тик таймера. Возвращает true если сеанс
// финализирован по лимиту и цикл должен завершиться.
func (c *Controller) onTick() bool {
	c.mu.Lock()
	if c.state != StateRecording || c.finishing {
		// Тик успел прилететь после выхода из Recording - игнорируем
		c.mu.Unlock()
		return true
	}

	elapsed := c.elapsedLocked()
	cbTick := c.callbacks.OnTick

	// Достигли лимита - финализируем тем же путём, что и Stop, ровно один раз
	if c.limit > 0 && elapsed >= c.limit {
		c.finishing = true
		c.accrued = elapsed
		c.stopCh = nil
		c.doneCh = nil
		c.mu.Unlock()

		if cbTick != nil {
			cbTick(elapsed)
		}
		c.finish()
		return true
	}
	c.mu.Unlock()

	if cbTick != nil {
		cbTick(elapsed)
	}
	return false
}
