// Command rv64emu loads a raw RV64I+A+Zicsr binary image and runs it on a
// single-hart emulated core with a CLINT/PLIC/UART/VirtIO MMIO bus.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nullriscv/rv64emu/internal/rv64"
)

var (
	maxSteps    uint64
	trace       bool
	interactive bool
	dumpOnExit  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rv64emu <image>",
		Short: "Run a raw RV64I+A+Zicsr binary image on an emulated hart",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	rootCmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "stop after N retired instructions (0 = unbounded)")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "log every delivered trap/interrupt to stderr")
	rootCmd.Flags().BoolVar(&interactive, "interactive", false, "attach an interactive console to the UART")
	rootCmd.Flags().BoolVar(&dumpOnExit, "dump", false, "dump registers and trap CSRs on exit")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("rv64emu: reading image: %w", err)
	}

	rv64.Trace = trace

	bus := rv64.NewBus(image)
	cpu := rv64.NewCPU(bus)
	machine := rv64.NewMachine(cpu)
	machine.MaxSteps = maxSteps

	var host *rv64.UARTHost
	if interactive {
		host = rv64.NewUARTHost(bus.UART)
		if err := host.Start(); err != nil {
			return err
		}
		defer host.Stop()

		done := make(chan error, 1)
		go func() { done <- machine.Run() }()

		for {
			select {
			case runErr := <-done:
				host.PrintOutput()
				return finish(cpu, runErr)
			case <-time.After(10 * time.Millisecond):
				host.PrintOutput()
			}
		}
	}

	runErr := machine.Run()
	return finish(cpu, runErr)
}

func finish(cpu *rv64.CPU, runErr error) error {
	if dumpOnExit || runErr != nil {
		cpu.DumpRegisters(os.Stdout)
		cpu.DumpCSRs(os.Stdout)
	}
	if runErr != nil {
		return fmt.Errorf("rv64emu: %w", runErr)
	}
	return nil
}
