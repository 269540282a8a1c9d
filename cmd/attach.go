package cmd

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/pkg/chimecli"
)

// attach follows an alarm's ring events live, drawing the fade ramp as a
// volume bar. With no id it follows every alarm until interrupted.
func attach(ctx *cli.Context) error {
	id := 0
	if raw := ctx.Args().First(); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return printErrWithCmdHelp(ctx, fmt.Errorf("bad alarm id %q", raw))
		}
		id = parsed
	}
	client, err := getClient()
	if err != nil {
		return printRuntimeErr(ctx, "attach", err)
	}
	defer client.Disconnect()

	status, err := client.Attach(id)
	if err != nil {
		return printRuntimeErr(ctx, "attach", err)
	}
	switch {
	case id == 0:
		fmt.Println("watching all alarms, ctrl-c to leave")
	case status.Ringing:
		fmt.Printf("alarm %d is ringing\n", status.AlarmId)
	default:
		fmt.Printf("alarm %d rings at %s, waiting\n", status.AlarmId, status.TargetTime)
	}

	progress := mpb.New(mpb.WithWidth(40))
	bars := make(map[int]*mpb.Bar)
	client.SetHandlers(chimecli.Handlers{
		RingingHandler: func(resp *common.RingingResponse) error {
			switch resp.Action {
			case common.RingStarted:
				bar := progress.AddBar(100,
					mpb.PrependDecorators(
						decor.Name(fmt.Sprintf("alarm %d ", resp.AlarmId)),
						decor.Name("volume "),
					),
					mpb.AppendDecorators(decor.Percentage()),
				)
				bar.SetCurrent(int64(resp.Value * 100))
				bars[resp.AlarmId] = bar
			case common.RingFadeStep:
				if bar, ok := bars[resp.AlarmId]; ok {
					bar.SetCurrent(int64(resp.Value * 100))
				}
			case common.RingVibrate:
				fmt.Printf("alarm %d vibrating for up to %.0fs\n", resp.AlarmId, resp.Value)
			case common.RingStopped, common.RingCancelled:
				if bar, ok := bars[resp.AlarmId]; ok {
					bar.SetTotal(100, true)
					delete(bars, resp.AlarmId)
				}
				fmt.Printf("alarm %d %s\n", resp.AlarmId, actionWord(resp.Action))
				if id != 0 {
					return chimecli.ErrDisconnect
				}
			}
			return nil
		},
	})
	if err := client.Listen(); err != nil {
		return printRuntimeErr(ctx, "attach", err)
	}
	progress.Wait()
	return nil
}

func actionWord(a common.RingingAction) string {
	if a == common.RingCancelled {
		return "cancelled"
	}
	return "stopped"
}
