package cmd

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/chimed/chime/pkg/chimecli"
)

func printRuntimeErr(ctx *cli.Context, cmd string, err error) error {
	fmt.Printf("chime: %s: %v\n", cmd, err)
	return nil
}

func printErrWithCmdHelp(ctx *cli.Context, err error) error {
	fmt.Printf("chime: %v\n\n", err)
	return cli.ShowCommandHelp(ctx, ctx.Command.Name)
}

// alarmIdArg parses the required <id> positional argument.
func alarmIdArg(ctx *cli.Context) (int, error) {
	raw := ctx.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("missing alarm id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("bad alarm id %q", raw)
	}
	return id, nil
}

func getClient() (*chimecli.Client, error) {
	return chimecli.NewClient()
}
