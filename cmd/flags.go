package cmd

import "github.com/urfave/cli"

var setFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "audio, a",
		Usage: "audio asset to play (must have a file extension)",
		Value: "assets/alarm.wav",
	},
	cli.BoolFlag{
		Name:  "loop, l",
		Usage: "loop the audio until stopped",
	},
	cli.BoolFlag{
		Name:  "vibrate",
		Usage: "vibrate alongside audio",
	},
	cli.BoolFlag{
		Name:  "volume-max",
		Usage: "raise system volume to maximum while ringing",
	},
	cli.Float64Flag{
		Name:  "fade",
		Usage: "fade audio in over this many seconds",
	},
	cli.StringFlag{
		Name:  "title",
		Usage: "notification title",
	},
	cli.StringFlag{
		Name:  "body",
		Usage: "notification body",
	},
	cli.BoolFlag{
		Name:  "notify-on-kill",
		Usage: "warn while the daemon holds this alarm",
	},
	cli.BoolFlag{
		Name:  "stop-on-open",
		Usage: "opening the notification stops the ring",
	},
	cli.BoolFlag{
		Name:  "full-screen",
		Usage: "ask for a full screen ringing notification",
	},
	cli.BoolFlag{
		Name:  "daily",
		Usage: "repeat every day",
	},
	cli.BoolFlag{
		Name:  "weekly",
		Usage: "repeat every week on --day",
	},
	cli.IntFlag{
		Name:  "day",
		Usage: "weekday for --weekly: 1=Monday .. 7=Sunday",
	},
	cli.StringFlag{
		Name:  "cron",
		Usage: "repeat on a cron expression",
	},
}

var listFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "all",
		Usage: "include stalled alarms",
	},
}

var snoozeFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "delay, d",
		Usage: "snooze delay in seconds (0 uses the daemon default)",
	},
}

var daemonFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "web",
		Usage: "also serve the JSON-RPC web surface on this address (e.g. localhost:4858)",
	},
}
