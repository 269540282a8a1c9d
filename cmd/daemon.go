package cmd

import (
	"github.com/urfave/cli"
)

func daemon(ctx *cli.Context) error {
	if err := runDaemon(ctx.String("web")); err != nil {
		return printRuntimeErr(ctx, "daemon", err)
	}
	return nil
}
