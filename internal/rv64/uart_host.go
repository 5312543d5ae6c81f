package rv64

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// UARTHost connects an interactive terminal to a UART device: raw stdin
// bytes go in via RouteHostKey, buffered THR writes come out via
// PrintOutput. Only instantiated by the front-end for interactive runs —
// never in tests.
//
// Unlike a full terminal emulator this UART exposes a single RHR byte with
// no line discipline of its own, so the host adapter has nothing to
// translate: whatever the guest wants done with a CR or a DEL is the
// guest's problem, not the host's. That leaves raw mode plus a reader
// goroutine as the only jobs left to do here.
type UARTHost struct {
	uart  *UART
	fd    int
	state *term.State

	once sync.Once
}

// NewUARTHost creates a host adapter that reads stdin into the given UART.
func NewUARTHost(uart *UART) *UARTHost {
	return &UARTHost{uart: uart, fd: int(os.Stdin.Fd())}
}

// Start puts stdin into raw mode and launches a reader goroutine that feeds
// every byte to the UART. The goroutine blocks in Read for the life of the
// process; it is abandoned (not joined) on Stop, since a blocking read on
// stdin has no portable way to be interrupted early.
func (h *UARTHost) Start() error {
	state, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("uart_host: set raw mode: %w", err)
	}
	h.state = state

	go h.readLoop()
	return nil
}

func (h *UARTHost) readLoop() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			h.uart.RouteHostKey(buf[0])
		}
		if err != nil {
			return
		}
	}
}

// Stop restores the terminal's original mode. Safe to call more than once.
func (h *UARTHost) Stop() {
	h.once.Do(func() {
		if h.state != nil {
			_ = term.Restore(h.fd, h.state)
		}
	})
}

// PrintOutput drains the UART's output buffer and prints it to stdout.
// Call this periodically from the front-end's run loop.
func (h *UARTHost) PrintOutput() {
	if out := h.uart.DrainOutput(); len(out) > 0 {
		os.Stdout.Write(out)
	}
}
