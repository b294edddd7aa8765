package session

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeCapture - устройство записи для тестов. Считает вызовы и
// позволяет подставить ошибку старта.
type fakeCapture struct {
	mu         sync.Mutex
	startErr   error
	running    bool
	paused     bool
	startCalls int
	pauseCalls int
	stopCalls  int
	samples    []float32
}

func (f *fakeCapture) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	f.paused = false
	return nil
}

func (f *fakeCapture) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauseCalls++
	f.paused = true
}

func (f *fakeCapture) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = false
}

func (f *fakeCapture) Stop() []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	if !f.running {
		return nil
	}
	f.running = false
	return f.samples
}

// fakePlayback - воспроизведение для тестов.
type fakePlayback struct {
	mu        sync.Mutex
	playing   bool
	paused    bool
	playCalls int
	stopCalls int
}

func (f *fakePlayback) Play(samples []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playCalls++
	f.playing = true
	f.paused = false
	return nil
}

func (f *fakePlayback) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
}

func (f *fakePlayback) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = false
}

func (f *fakePlayback) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	f.playing = false
	f.paused = false
}

func (f *fakePlayback) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakePlayback) IsPaused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing && f.paused
}

// fakeClock - управляемые часы.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// testEnv собирает Controller с ручным таймером и часами.
type testEnv struct {
	ctrl     *Controller
	capture  *fakeCapture
	playback *fakePlayback
	clock    *fakeClock
	tickCh   chan time.Time
	ticked   chan time.Duration
	finished chan *Artifact
	states   chan State
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	env := &testEnv{
		capture:  &fakeCapture{samples: make([]float32, 1600)},
		playback: &fakePlayback{},
		clock:    &fakeClock{now: time.Unix(1000, 0)},
		tickCh:   make(chan time.Time),
		ticked:   make(chan time.Duration, 100),
		finished: make(chan *Artifact, 1),
		states:   make(chan State, 100),
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = 16000
	}
	env.ctrl = New(env.capture, env.playback, opts, Callbacks{
		OnState:    func(s State) { env.states <- s },
		OnTick:     func(d time.Duration) { env.ticked <- d },
		OnFinished: func(a *Artifact) { env.finished <- a },
	})
	env.ctrl.clock = env.clock.Now
	env.ctrl.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return env.tickCh, func() {}
	}
	t.Cleanup(env.ctrl.Close)
	return env
}

// tick продвигает часы на interval и доставляет один тик таймера,
// дожидаясь его обработки.
func (env *testEnv) tick(t *testing.T) time.Duration {
	t.Helper()
	env.clock.Advance(time.Second)
	select {
	case env.tickCh <- env.clock.Now():
	case <-time.After(time.Second):
		t.Fatal("tick not delivered")
	}
	select {
	case d := <-env.ticked:
		return d
	case <-time.After(time.Second):
		t.Fatal("tick not processed")
		return 0
	}
}

func (env *testEnv) waitFinished(t *testing.T) *Artifact {
	t.Helper()
	select {
	case a := <-env.finished:
		return a
	case <-time.After(time.Second):
		t.Fatal("session did not finish")
		return nil
	}
}

func TestStartRecordStop(t *testing.T) {
	env := newTestEnv(t, Options{})

	if err := env.ctrl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s := env.ctrl.State(); s != StateRecording {
		t.Fatalf("state after start: %v", s)
	}

	for i := 1; i <= 5; i++ {
		if d := env.tick(t); d != time.Duration(i)*time.Second {
			t.Errorf("tick %d: elapsed %v", i, d)
		}
	}

	env.ctrl.Stop()
	art := env.waitFinished(t)

	if s := env.ctrl.State(); s != StateFinished {
		t.Errorf("state after stop: %v", s)
	}
	if got := env.ctrl.Elapsed(); got != 5*time.Second {
		t.Errorf("elapsed: got %v, want 5s", got)
	}
	if art == nil || len(art.Data) == 0 {
		t.Fatal("artifact missing")
	}
	if art.MIME != "audio/wav" {
		t.Errorf("artifact mime: %q", art.MIME)
	}
	if art.Duration != 5*time.Second {
		t.Errorf("artifact duration: %v", art.Duration)
	}
	if string(art.Data[0:4]) != "RIFF" {
		t.Error("artifact is not a WAV file")
	}
	if env.capture.stopCalls != 1 {
		t.Errorf("capture.Stop calls: %d", env.capture.stopCalls)
	}
}

func TestIllegalTransitionsAreNoops(t *testing.T) {
	env := newTestEnv(t, Options{})

	// Из Idle разрешён только Start
	env.ctrl.Pause()
	env.ctrl.Resume()
	env.ctrl.Stop()
	env.ctrl.Reset()
	if s := env.ctrl.State(); s != StateIdle {
		t.Fatalf("state: %v", s)
	}
	if env.capture.pauseCalls != 0 || env.capture.stopCalls != 0 {
		t.Error("illegal transition reached the capture device")
	}

	// Из Recording нельзя Resume и Reset
	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	<-env.states
	env.ctrl.Resume()
	env.ctrl.Reset()
	if s := env.ctrl.State(); s != StateRecording {
		t.Fatalf("state: %v", s)
	}

	// Из Paused нельзя Pause повторно
	env.ctrl.Pause()
	pauseCalls := env.capture.pauseCalls
	env.ctrl.Pause()
	if env.capture.pauseCalls != pauseCalls {
		t.Error("double pause reached the capture device")
	}
	if s := env.ctrl.State(); s != StatePaused {
		t.Fatalf("state: %v", s)
	}
}

// Свёртка последовательности команд над таблицей переходов.
func TestCommandSequences(t *testing.T) {
	cases := []struct {
		name string
		cmds string // s=start p=pause r=resume x=stop z=reset
		want State
	}{
		{"idle", "", StateIdle},
		{"start", "s", StateRecording},
		{"start-pause", "sp", StatePaused},
		{"start-pause-resume", "spr", StateRecording},
		{"start-stop", "sx", StateFinished},
		{"pause-from-paused-stop", "spx", StateFinished},
		{"full-cycle", "sxz", StateIdle},
		{"restart-after-reset", "sxzs", StateRecording},
		{"ignored-tail", "sxzpz", StateIdle},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})
			for _, cmd := range tc.cmds {
				switch cmd {
				case 's':
					if err := env.ctrl.Start(); err != nil {
						t.Fatal(err)
					}
				case 'p':
					env.ctrl.Pause()
				case 'r':
					env.ctrl.Resume()
				case 'x':
					env.ctrl.Stop()
				case 'z':
					env.ctrl.Reset()
				}
			}
			if s := env.ctrl.State(); s != tc.want {
				t.Errorf("after %q: state %v, want %v", tc.cmds, s, tc.want)
			}
		})
	}
}

func TestDurationLimitAutoStop(t *testing.T) {
	env := newTestEnv(t, Options{Limit: 30 * time.Second})

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 1; i < 30; i++ {
		env.tick(t)
		if s := env.ctrl.State(); s != StateRecording {
			t.Fatalf("tick %d: state %v", i, s)
		}
	}

	// Тик номер 30 достигает лимита и финализирует сам
	env.tick(t)
	art := env.waitFinished(t)

	if s := env.ctrl.State(); s != StateFinished {
		t.Fatalf("state after limit: %v", s)
	}
	if got := env.ctrl.Elapsed(); got != 30*time.Second {
		t.Errorf("elapsed frozen at %v, want 30s", got)
	}
	if art.Duration != 30*time.Second {
		t.Errorf("artifact duration: %v", art.Duration)
	}
	if env.capture.stopCalls != 1 {
		t.Errorf("capture.Stop calls: %d", env.capture.stopCalls)
	}

	// Время идёт дальше, elapsed не растёт
	env.clock.Advance(10 * time.Second)
	if got := env.ctrl.Elapsed(); got != 30*time.Second {
		t.Errorf("elapsed grew after finish: %v", got)
	}

	// Stop после автостопа - no-op
	env.ctrl.Stop()
	if env.capture.stopCalls != 1 {
		t.Errorf("duplicate stop after auto-stop: %d calls", env.capture.stopCalls)
	}
}

func TestLimitOvershootBounded(t *testing.T) {
	env := newTestEnv(t, Options{Limit: 2500 * time.Millisecond})

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.tick(t)
	env.tick(t)
	// Третий тик: elapsed 3s >= 2.5s, перелёт меньше одного интервала
	env.tick(t)
	env.waitFinished(t)

	got := env.ctrl.Elapsed()
	if got < 2500*time.Millisecond || got >= 3500*time.Millisecond {
		t.Errorf("elapsed %v outside [limit, limit+tick)", got)
	}
}

func TestPauseFreezesElapsed(t *testing.T) {
	env := newTestEnv(t, Options{})

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.tick(t)
	env.tick(t)

	env.ctrl.Pause()
	if got := env.ctrl.Elapsed(); got != 2*time.Second {
		t.Fatalf("elapsed at pause: %v", got)
	}

	// Во время паузы время не копится
	env.clock.Advance(10 * time.Second)
	if got := env.ctrl.Elapsed(); got != 2*time.Second {
		t.Errorf("elapsed grew while paused: %v", got)
	}

	env.ctrl.Resume()
	env.tick(t)

	if got := env.ctrl.Elapsed(); got != 3*time.Second {
		t.Errorf("elapsed after resume: %v, want 3s", got)
	}
}

func TestPauseResumeWithoutDelayKeepsElapsed(t *testing.T) {
	env := newTestEnv(t, Options{})

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.tick(t)

	// pause/resume без задержек эквивалентны непрерывной записи
	env.ctrl.Pause()
	env.ctrl.Resume()
	env.ctrl.Pause()
	env.ctrl.Resume()

	if got := env.ctrl.Elapsed(); got != time.Second {
		t.Errorf("elapsed after pause/resume churn: %v, want 1s", got)
	}
}

func TestStopFromPaused(t *testing.T) {
	env := newTestEnv(t, Options{})

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.tick(t)
	env.ctrl.Pause()
	env.ctrl.Stop()
	art := env.waitFinished(t)

	if s := env.ctrl.State(); s != StateFinished {
		t.Errorf("state: %v", s)
	}
	if art.Duration != time.Second {
		t.Errorf("artifact duration: %v", art.Duration)
	}
}

func TestResetClearsSession(t *testing.T) {
	env := newTestEnv(t, Options{})

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.tick(t)
	env.ctrl.Stop()
	env.waitFinished(t)

	env.ctrl.Reset()

	if s := env.ctrl.State(); s != StateIdle {
		t.Errorf("state after reset: %v", s)
	}
	if env.ctrl.Artifact() != nil {
		t.Error("artifact survived reset")
	}
	if got := env.ctrl.Elapsed(); got != 0 {
		t.Errorf("elapsed after reset: %v", got)
	}
	if env.playback.stopCalls == 0 {
		t.Error("reset did not stop playback")
	}

	// Новый цикл после reset работает
	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	if s := env.ctrl.State(); s != StateRecording {
		t.Errorf("state after restart: %v", s)
	}
}

func TestStartFailureLeavesIdle(t *testing.T) {
	env := newTestEnv(t, Options{})
	deviceErr := errors.New("no input device")
	env.capture.startErr = deviceErr

	if err := env.ctrl.Start(); !errors.Is(err, deviceErr) {
		t.Fatalf("Start error: %v", err)
	}
	if s := env.ctrl.State(); s != StateIdle {
		t.Errorf("state after failed start: %v", s)
	}
	if env.ctrl.Artifact() != nil {
		t.Error("artifact present after failed start")
	}

	// Повторная попытка после устранения ошибки
	env.capture.startErr = nil
	if err := env.ctrl.Start(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s := env.ctrl.State(); s != StateRecording {
		t.Errorf("state after retry: %v", s)
	}
}

func TestTogglePlayback(t *testing.T) {
	env := newTestEnv(t, Options{})

	// Вне Finished воспроизведение недоступно
	if err := env.ctrl.TogglePlayback(); err != nil {
		t.Fatal(err)
	}
	if env.playback.playCalls != 0 {
		t.Error("playback started from Idle")
	}

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.tick(t)
	env.ctrl.Stop()
	env.waitFinished(t)

	// Finished: play -> pause -> resume
	if err := env.ctrl.TogglePlayback(); err != nil {
		t.Fatal(err)
	}
	if !env.playback.IsPlaying() {
		t.Fatal("playback not started")
	}
	env.ctrl.TogglePlayback()
	if !env.playback.IsPaused() {
		t.Error("playback not paused")
	}
	env.ctrl.TogglePlayback()
	if env.playback.IsPaused() {
		t.Error("playback not resumed")
	}

	// Воспроизведение не трогает состояние сеанса
	if s := env.ctrl.State(); s != StateFinished {
		t.Errorf("state: %v", s)
	}
}

func TestCloseReleasesResources(t *testing.T) {
	env := newTestEnv(t, Options{})

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.tick(t)
	env.ctrl.Close()

	if env.capture.stopCalls != 1 {
		t.Errorf("capture.Stop calls: %d", env.capture.stopCalls)
	}
	if env.playback.stopCalls == 0 {
		t.Error("close did not stop playback")
	}
	if env.ctrl.Artifact() != nil {
		t.Error("artifact survived close")
	}

	// Повторный Close безопасен
	env.ctrl.Close()
}

// blockingCapture задерживает Stop до сигнала release - имитирует
// медленное устройство во время финализации.
type blockingCapture struct {
	fakeCapture
	entered chan struct{}
	release chan struct{}
}

func (b *blockingCapture) Stop() []float32 {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-b.release
	return b.fakeCapture.Stop()
}

func TestCloseDuringFinalizeDiscardsResult(t *testing.T) {
	env := newTestEnv(t, Options{})
	bc := &blockingCapture{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	bc.samples = make([]float32, 1600)
	env.ctrl.capture = bc

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.tick(t)

	stopDone := make(chan struct{})
	go func() {
		env.ctrl.Stop()
		close(stopDone)
	}()

	// Финализация дошла до устройства и повисла в capture.Stop
	select {
	case <-bc.entered:
	case <-time.After(time.Second):
		t.Fatal("finalize did not reach the device")
	}

	// Close во время финализации не зовёт устройство второй раз и не блокируется
	env.ctrl.Close()
	if s := env.ctrl.State(); s != StateIdle {
		t.Fatalf("state after close: %v, want idle", s)
	}

	close(bc.release)
	select {
	case <-stopDone:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}

	// Завершившаяся финализация не воскрешает сеанс
	if s := env.ctrl.State(); s != StateIdle {
		t.Errorf("session resurrected after close: %v", s)
	}
	if env.ctrl.Artifact() != nil {
		t.Error("artifact resurrected after close")
	}
	bc.mu.Lock()
	stopCalls := bc.stopCalls
	bc.mu.Unlock()
	if stopCalls != 1 {
		t.Errorf("capture.Stop calls: %d, want 1", stopCalls)
	}
	select {
	case <-env.finished:
		t.Error("finished callback fired after close")
	default:
	}

	// Закрытый контроллер не стартует заново
	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	if s := env.ctrl.State(); s != StateIdle {
		t.Errorf("closed controller restarted: %v", s)
	}
}

func TestElapsedFrozenDuringFinalize(t *testing.T) {
	env := newTestEnv(t, Options{})
	bc := &blockingCapture{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	bc.samples = make([]float32, 1600)
	env.ctrl.capture = bc

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.tick(t)
	env.tick(t)

	stopDone := make(chan struct{})
	go func() {
		env.ctrl.Stop()
		close(stopDone)
	}()
	select {
	case <-bc.entered:
	case <-time.After(time.Second):
		t.Fatal("finalize did not reach the device")
	}

	// Пока финализация в полёте, накопленное время уже заморожено
	env.clock.Advance(10 * time.Second)
	if got := env.ctrl.Elapsed(); got != 2*time.Second {
		t.Errorf("elapsed during finalize: %v, want 2s", got)
	}

	close(bc.release)
	<-stopDone
	if got := env.ctrl.Elapsed(); got != 2*time.Second {
		t.Errorf("elapsed after finalize: %v, want 2s", got)
	}
}

// blockingStartCapture задерживает Start до сигнала release - имитирует
// долгое открытие устройства (запрос доступа к микрофону).
type blockingStartCapture struct {
	fakeCapture
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStartCapture) Start() error {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-b.release
	return b.fakeCapture.Start()
}

func TestCommandsRejectedWhileStartInFlight(t *testing.T) {
	env := newTestEnv(t, Options{})
	bc := &blockingStartCapture{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	bc.samples = make([]float32, 1600)
	env.ctrl.capture = bc

	startDone := make(chan error, 1)
	go func() { startDone <- env.ctrl.Start() }()

	select {
	case <-bc.entered:
	case <-time.After(time.Second):
		t.Fatal("Start did not reach the device")
	}

	// Пока устройство открывается, команды отклоняются и до него не доходят
	env.ctrl.Pause()
	env.ctrl.Resume()
	env.ctrl.Stop()
	env.ctrl.Reset()
	if s := env.ctrl.State(); s != StateIdle {
		t.Fatalf("state while start in flight: %v", s)
	}
	bc.mu.Lock()
	pauseCalls, stopCalls := bc.pauseCalls, bc.stopCalls
	bc.mu.Unlock()
	if pauseCalls != 0 || stopCalls != 0 {
		t.Error("command issued during start reached the device")
	}

	// Повторный Start тоже отклоняется
	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-bc.entered:
		t.Fatal("second Start reached the device")
	default:
	}

	close(bc.release)
	if err := <-startDone; err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s := env.ctrl.State(); s != StateRecording {
		t.Fatalf("state after start: %v", s)
	}
	bc.mu.Lock()
	startCalls := bc.startCalls
	bc.mu.Unlock()
	if startCalls != 1 {
		t.Errorf("capture.Start calls: %d, want 1", startCalls)
	}
}

func TestCloseDuringStartDropsRecording(t *testing.T) {
	env := newTestEnv(t, Options{})
	bc := &blockingStartCapture{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	env.ctrl.capture = bc

	startDone := make(chan error, 1)
	go func() { startDone <- env.ctrl.Start() }()
	select {
	case <-bc.entered:
	case <-time.After(time.Second):
		t.Fatal("Start did not reach the device")
	}

	env.ctrl.Close()

	close(bc.release)
	if err := <-startDone; err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Устройство открылось уже после Close - контроллер его останавливает
	if s := env.ctrl.State(); s != StateIdle {
		t.Errorf("state after close: %v", s)
	}
	bc.mu.Lock()
	stopCalls := bc.stopCalls
	bc.mu.Unlock()
	if stopCalls != 1 {
		t.Errorf("device left running after close: %d stop calls", stopCalls)
	}
}

func TestStateCallbacksSequence(t *testing.T) {
	env := newTestEnv(t, Options{})

	if err := env.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	env.ctrl.Pause()
	env.ctrl.Resume()
	env.ctrl.Stop()
	env.waitFinished(t)
	env.ctrl.Reset()

	want := []State{StateRecording, StatePaused, StateRecording, StateFinished, StateIdle}
	for i, w := range want {
		select {
		case got := <-env.states:
			if got != w {
				t.Errorf("state event %d: got %v, want %v", i, got, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing state event %d", i)
		}
	}
}
