package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

func stopDaemon(ctx *cli.Context) error {
	pid, err := readPidFile()
	if err != nil {
		fmt.Println("chimed: not running")
		return nil
	}
	if !processRunning(pid) {
		fmt.Println("chimed: not running (stale pid file)")
		removePidFile()
		return nil
	}
	if err := terminateProcess(pid); err != nil {
		return printRuntimeErr(ctx, "stop-daemon", err)
	}
	fmt.Printf("chimed (pid %d) asked to stop\n", pid)
	return nil
}
