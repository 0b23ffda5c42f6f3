package main

import (
	"fmt"
	"os"

	"github.com/sou1ka/wallpaper-changer/internal/adapter/primary/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
