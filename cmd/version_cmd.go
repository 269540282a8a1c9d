package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

func versionCmd(ctx *cli.Context) error {
	fmt.Printf("chime %s (%s, %s)\n", version, commit, buildType)
	client, err := getClient()
	if err != nil {
		fmt.Println("chimed: not running")
		return nil
	}
	defer client.Disconnect()

	resp, err := client.GetVersion()
	if err != nil {
		return printRuntimeErr(ctx, "version", err)
	}
	fmt.Printf("chimed %s (%s, %s)\n", resp.Version, resp.Commit, resp.BuildType)
	return nil
}
