package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chimed/chime/cmd"
)

func main() {
	web := flag.String("web", "", "serve the JSON-RPC web surface on this address")
	flag.Parse()
	if err := cmd.RunDaemon(*web); err != nil {
		fmt.Fprintf(os.Stderr, "chimed: %v\n", err)
		os.Exit(1)
	}
}
