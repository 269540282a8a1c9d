package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

func stop(ctx *cli.Context) error {
	id, err := alarmIdArg(ctx)
	if err != nil {
		return printErrWithCmdHelp(ctx, err)
	}
	client, err := getClient()
	if err != nil {
		return printRuntimeErr(ctx, "stop", err)
	}
	defer client.Disconnect()

	resp, err := client.StopAlarm(id)
	if err != nil {
		return printRuntimeErr(ctx, "stop", err)
	}
	if resp.Deleted {
		fmt.Printf("alarm %d stopped and removed\n", resp.AlarmId)
	} else {
		fmt.Printf("alarm %d stopped\n", resp.AlarmId)
	}
	return nil
}

func stopAll(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return printRuntimeErr(ctx, "stop-all", err)
	}
	defer client.Disconnect()

	resp, err := client.StopAll()
	if err != nil {
		return printRuntimeErr(ctx, "stop-all", err)
	}
	fmt.Printf("stopped %d alarm(s)\n", resp.Stopped)
	return nil
}

func cancel(ctx *cli.Context) error {
	id, err := alarmIdArg(ctx)
	if err != nil {
		return printErrWithCmdHelp(ctx, err)
	}
	client, err := getClient()
	if err != nil {
		return printRuntimeErr(ctx, "cancel", err)
	}
	defer client.Disconnect()

	if _, err := client.CancelAlarm(id); err != nil {
		return printRuntimeErr(ctx, "cancel", err)
	}
	fmt.Printf("alarm %d cancelled\n", id)
	return nil
}

func snooze(ctx *cli.Context) error {
	id, err := alarmIdArg(ctx)
	if err != nil {
		return printErrWithCmdHelp(ctx, err)
	}
	client, err := getClient()
	if err != nil {
		return printRuntimeErr(ctx, "snooze", err)
	}
	defer client.Disconnect()

	resp, err := client.Snooze(id, ctx.Int("delay"))
	if err != nil {
		return printRuntimeErr(ctx, "snooze", err)
	}
	fmt.Printf("alarm %d snoozed until %s\n", resp.AlarmId, resp.TargetTime)
	return nil
}
