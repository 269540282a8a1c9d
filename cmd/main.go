// Package cmd implements the chime command line: every subcommand talks to a
// running chimed over its socket, spawning one first when needed.
package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

// Execute runs the chime CLI with the given arguments.
func Execute(args []string) error {
	app := cli.NewApp()
	app.Name = "chime"
	app.Usage = "schedule and control alarms"
	app.Version = version
	app.Commands = []cli.Command{
		{
			Name:      "set",
			Usage:     "schedule an alarm",
			ArgsUsage: "<id> <time>",
			Description: `Schedules alarm <id> to ring at <time>.

<time> is either "HH:MM" (next occurrence, today or tomorrow) or a full
"YYYY-MM-DD HH:MM", both in local time.`,
			Flags:  setFlags,
			Action: set,
		},
		{
			Name:   "list",
			Usage:  "list scheduled alarms",
			Flags:  listFlags,
			Action: list,
		},
		{
			Name:      "get",
			Usage:     "show one alarm",
			ArgsUsage: "<id>",
			Action:    get,
		},
		{
			Name:      "stop",
			Usage:     "stop a ringing alarm",
			ArgsUsage: "<id>",
			Action:    stop,
		},
		{
			Name:   "stop-all",
			Usage:  "stop every ring and drop every alarm",
			Action: stopAll,
		},
		{
			Name:      "cancel",
			Usage:     "disarm and delete an alarm",
			ArgsUsage: "<id>",
			Action:    cancel,
		},
		{
			Name:      "snooze",
			Usage:     "stop a ringing alarm and re-arm it shortly",
			ArgsUsage: "<id>",
			Flags:     snoozeFlags,
			Action:    snooze,
		},
		{
			Name:      "attach",
			Usage:     "follow an alarm's ring events live",
			ArgsUsage: "[id]",
			Action:    attach,
		},
		{
			Name:   "daemon",
			Usage:  "run the alarm daemon in the foreground",
			Flags:  daemonFlags,
			Action: daemon,
		},
		{
			Name:   "stop-daemon",
			Usage:  "stop a running daemon",
			Action: stopDaemon,
		},
		{
			Name:   "version",
			Usage:  "print client and daemon versions",
			Action: versionCmd,
		},
	}
	app.CommandNotFound = func(ctx *cli.Context, command string) {
		fmt.Printf("chime: unknown command %q\n\n", command)
		_ = cli.ShowAppHelp(ctx)
	}
	return app.Run(args)
}
