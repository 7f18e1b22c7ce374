// Package lifecycle turns the first interrupt into a graceful stop. Handlers
// registered here run once, usually cancelling the running command; the
// process only exits on a second signal or when the grace period runs out.
package lifecycle

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// GracePeriod is how long a cancelled command may take to clean up.
const GracePeriod = 5 * time.Second

// Handler receives the OS signal that triggered shutdown.
type Handler func(os.Signal)

// HandlerID identifies a registered handler.
type HandlerID int64

var (
	defaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

	handlerCounter atomic.Int64

	startOnce  sync.Once
	signalChan chan os.Signal

	handlersMu sync.RWMutex
	handlers   = make(map[HandlerID]Handler)
	order      []HandlerID

	channelFactory = newSignalChan
	notifyFunc     = signal.Notify
	stopFunc       = signal.Stop
	exitFunc       = os.Exit
	afterFunc      = time.After
)

// Register adds a handler that will run when a shutdown signal arrives.
// Handlers execute in reverse registration order.
func Register(handler Handler) HandlerID {
	if handler == nil {
		return 0
	}

	startOnce.Do(startListener)

	id := HandlerID(handlerCounter.Add(1))

	handlersMu.Lock()
	handlers[id] = handler
	order = append(order, id)
	handlersMu.Unlock()

	return id
}

func Unregister(id HandlerID) {
	if id == 0 {
		return
	}

	handlersMu.Lock()
	defer handlersMu.Unlock()

	delete(handlers, id)
	for i, existing := range order {
		if existing == id {
			order = append(order[:i], order[i+1:]...)
			break
		}
	}
}

// ExitCode is the conventional shell status for a process stopped by sig.
func ExitCode(sig os.Signal) int {
	switch sig {
	case os.Interrupt:
		return 130
	case syscall.SIGTERM:
		return 143
	default:
		return 1
	}
}

func startListener() {
	signals := channelFactory()
	signalChan = signals
	notifyFunc(signals, defaultSignals...)

	go func() {
		sig, ok := <-signals
		if !ok {
			return
		}
		runHandlers(sig)

		select {
		case <-signals:
		case <-afterFunc(GracePeriod):
		}
		exitFunc(ExitCode(sig))
	}()
}

func runHandlers(sig os.Signal) {
	handlersMu.RLock()
	snapshot := make([]HandlerID, len(order))
	copy(snapshot, order)
	handlerCopy := make(map[HandlerID]Handler, len(handlers))
	for id, handler := range handlers {
		handlerCopy[id] = handler
	}
	handlersMu.RUnlock()

	for i := len(snapshot) - 1; i >= 0; i-- {
		if handler := handlerCopy[snapshot[i]]; handler != nil {
			callHandler(handler, sig)
		}
	}
}

func callHandler(handler Handler, sig os.Signal) {
	defer func() {
		// a panicking handler must not stop the others
		_ = recover()
	}()
	handler(sig)
}

// reset clears global state (tests only).
func reset() {
	if signalChan != nil {
		stopFunc(signalChan)
	}
	signalChan = nil

	startOnce = sync.Once{}
	handlerCounter.Store(0)

	handlersMu.Lock()
	handlers = make(map[HandlerID]Handler)
	order = nil
	handlersMu.Unlock()

	restoreFactories()
}

func newSignalChan() chan os.Signal {
	return make(chan os.Signal, 1)
}

func restoreFactories() {
	channelFactory = newSignalChan
	notifyFunc = signal.Notify
	stopFunc = signal.Stop
	exitFunc = os.Exit
	afterFunc = time.After
}
