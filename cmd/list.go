package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/pkg/chimelib"
)

func list(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return printRuntimeErr(ctx, "list", err)
	}
	defer client.Disconnect()

	resp, err := client.ListAlarms(ctx.Bool("all"))
	if err != nil {
		return printRuntimeErr(ctx, "list", err)
	}
	if len(resp.Alarms) == 0 {
		fmt.Println("no alarms scheduled")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tREPEAT\tAUDIO\tOPTIONS")
	for _, s := range resp.Alarms {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			s.Id,
			s.TargetTime.Format(common.TargetTimeLayout),
			repeatLabel(s),
			s.AudioAssetRef,
			optionLabel(s),
		)
	}
	return w.Flush()
}

func get(ctx *cli.Context) error {
	id, err := alarmIdArg(ctx)
	if err != nil {
		return printErrWithCmdHelp(ctx, err)
	}
	client, err := getClient()
	if err != nil {
		return printRuntimeErr(ctx, "get", err)
	}
	defer client.Disconnect()

	resp, err := client.GetAlarm(id)
	if err != nil {
		return printRuntimeErr(ctx, "get", err)
	}
	s := resp.Alarm
	fmt.Printf("alarm %d\n", s.Id)
	fmt.Printf("  rings at:  %s\n", s.TargetTime.Format(common.TargetTimeLayout))
	fmt.Printf("  audio:     %s\n", s.AudioAssetRef)
	fmt.Printf("  repeat:    %s\n", repeatLabel(s))
	if opts := optionLabel(s); opts != "-" {
		fmt.Printf("  options:   %s\n", opts)
	}
	if s.NotificationEnabled() {
		fmt.Printf("  notifies:  %s\n", s.NotificationTitle)
	}
	return nil
}

func repeatLabel(s *chimelib.AlarmSettings) string {
	switch {
	case s.CronExpr != "":
		return s.CronExpr
	case s.RepeatDaily:
		return "daily"
	case s.RepeatWeekly:
		return "weekly/" + time.Weekday(s.DayOfWeek%7).String()[:3]
	default:
		return "once"
	}
}

func optionLabel(s *chimelib.AlarmSettings) string {
	var opts []string
	if s.LoopAudio {
		opts = append(opts, "loop")
	}
	if s.Vibrate {
		opts = append(opts, "vibrate")
	}
	if s.VolumeMax {
		opts = append(opts, "volume-max")
	}
	if s.FadeDuration > 0 {
		opts = append(opts, fmt.Sprintf("fade=%.0fs", s.FadeDuration))
	}
	if len(opts) == 0 {
		return "-"
	}
	return strings.Join(opts, ",")
}
