package main

import (
	"fmt"
	"os"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/cmd"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	logging.Init()

	settings := conf.Setting()
	if settings == nil {
		fmt.Fprintln(os.Stderr, "error loading configuration")
		return 1
	}
	settings.Version = version

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}
