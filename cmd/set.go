package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/pkg/chimelib"
)

func set(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) < 2 {
		return printErrWithCmdHelp(ctx, fmt.Errorf("need an alarm id and a time"))
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return printErrWithCmdHelp(ctx, fmt.Errorf("bad alarm id %q", args[0]))
	}
	target, err := parseTargetTime(strings.Join(args[1:], " "))
	if err != nil {
		return printErrWithCmdHelp(ctx, err)
	}

	client, err := getClient()
	if err != nil {
		return printRuntimeErr(ctx, "set", err)
	}
	defer client.Disconnect()

	resp, err := client.SetAlarm(&common.SetParams{
		AlarmId:          id,
		TargetTime:       target,
		AudioAssetRef:    ctx.String("audio"),
		LoopAudio:        ctx.Bool("loop"),
		Vibrate:          ctx.Bool("vibrate"),
		VolumeMax:        ctx.Bool("volume-max"),
		FadeDuration:     ctx.Float64("fade"),
		NotifTitle:       ctx.String("title"),
		NotifBody:        ctx.String("body"),
		NotifyOnKill:     ctx.Bool("notify-on-kill"),
		StopOnNotifOpen:  ctx.Bool("stop-on-open"),
		FullScreenIntent: ctx.Bool("full-screen"),
		RepeatDaily:      ctx.Bool("daily"),
		RepeatWeekly:     ctx.Bool("weekly"),
		DayOfWeek:        ctx.Int("day"),
		CronExpr:         ctx.String("cron"),
	})
	if err != nil {
		return printRuntimeErr(ctx, "set", err)
	}
	repeat := ""
	if resp.Repeats {
		repeat = " (repeating)"
	}
	fmt.Printf("alarm %d set for %s%s\n", resp.AlarmId, resp.TargetTime, repeat)
	return nil
}

// parseTargetTime accepts "HH:MM" (next occurrence) or a full
// "YYYY-MM-DD HH:MM", both local.
func parseTargetTime(raw string) (string, error) {
	if t, err := time.ParseInLocation("15:04", raw, time.Local); err == nil {
		next := chimelib.NextDailyOccurrence(time.Now(), t.Hour(), t.Minute())
		return next.Format(common.TargetTimeLayout), nil
	}
	if _, err := time.ParseInLocation(common.TargetTimeLayout, raw, time.Local); err != nil {
		return "", fmt.Errorf("bad time %q, want HH:MM or YYYY-MM-DD HH:MM", raw)
	}
	return raw, nil
}
