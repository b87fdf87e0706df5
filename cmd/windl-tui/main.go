package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/getwindl/windl/internal/config"
	"github.com/getwindl/windl/internal/tui"
)

func main() {
	var (
		outputFlag = flag.String("output", "", "Output file or directory (default: current directory)")
		configFlag = flag.String("config", "", "Path to config file")
	)
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *outputFlag != "" {
		settings.OutputPath = *outputFlag
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
