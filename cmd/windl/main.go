package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/getwindl/windl/internal/config"
	"github.com/getwindl/windl/internal/download"
	"github.com/getwindl/windl/internal/model"
	"github.com/getwindl/windl/internal/msapi"
)

func main() {
	var (
		versionFlag = flag.String("version", "", "Product version, e.g. \"windows 11\" (fragment match)")
		releaseFlag = flag.String("release", "", "Release, e.g. \"24H2\" (default: latest)")
		editionFlag = flag.String("edition", "", "Edition, e.g. \"home\" (default: first)")
		langFlag    = flag.String("language", "", "Installation language (default: system locale)")
		archFlag    = flag.String("arch", "", "Architecture, e.g. \"x64\" (default: host)")
		outputFlag  = flag.String("output", "", "Output file or directory (default: current directory)")
		configFlag  = flag.String("config", "", "Path to config file")
		listFlag    = flag.Bool("list", false, "List catalog entries for the given selection and exit")
		urlOnlyFlag = flag.Bool("url-only", false, "Print the resolved download URL without downloading")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if *verboseFlag {
		logger.SetLevel(log.DebugLevel)
	}

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			logger.Fatal("could not load config", "path", *configFlag, "err", err)
		}
	}
	if *outputFlag != "" {
		settings.OutputPath = *outputFlag
	}

	sel := model.Selection{
		Version:      *versionFlag,
		Release:      *releaseFlag,
		Edition:      *editionFlag,
		Language:     *langFlag,
		Architecture: *archFlag,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	manager := download.NewManager(settings, logger, func(event download.ProgressEvent) {
		switch event.Level {
		case download.LevelError:
			logger.Error(event.Message)
		case download.LevelWarning:
			logger.Warn(event.Message)
		case download.LevelVerbose:
			logger.Debug(event.Message)
		default:
			logger.Info(event.Message)
		}
	})

	if *listFlag {
		if err := list(ctx, manager, sel); err != nil {
			fail(logger, err)
		}
		return
	}

	sel, url, err := manager.Resolve(ctx, sel)
	if err != nil {
		fail(logger, err)
	}

	if *urlOnlyFlag {
		fmt.Println(url)
		return
	}

	path, err := manager.Download(ctx, sel, url)
	if err != nil {
		if ctx.Err() != nil {
			os.Exit(130)
		}
		fail(logger, err)
	}

	logger.Info("done", "selection", sel.String(), "path", path)
}

// list prints the entries one level below the given selection: versions
// when nothing is chosen, down to architectures for a chosen language.
// The language and architecture levels hit the vendor API.
func list(ctx context.Context, manager *download.Manager, sel model.Selection) error {
	switch {
	case sel.Version == "":
		for _, v := range manager.Versions() {
			fmt.Println(v.Name)
		}
	case sel.Release == "":
		releases, err := manager.Releases(sel.Version)
		if err != nil {
			return err
		}
		for _, r := range releases {
			fmt.Println(r.Name)
		}
	case sel.Edition == "":
		editions, err := manager.Editions(sel.Version, sel.Release)
		if err != nil {
			return err
		}
		for _, e := range editions {
			fmt.Println(e.Name)
		}
	case sel.Language == "":
		langs, err := manager.Languages(ctx, sel)
		if err != nil {
			return err
		}
		for _, l := range langs {
			fmt.Printf("%s (%s)\n", l.Name, l.DisplayName)
		}
	default:
		archs, err := manager.Architectures(ctx, sel)
		if err != nil {
			return err
		}
		for _, a := range archs {
			fmt.Println(a.Name)
		}
	}
	return nil
}

func fail(logger *log.Logger, err error) {
	var blocked *msapi.BlockedError
	if errors.As(err, &blocked) {
		logger.Fatal(blocked.Message)
	}
	var notFound *msapi.NotFoundError
	if errors.As(err, &notFound) {
		logger.Fatal(notFound.Error() + " (use -list to see what is available)")
	}
	logger.Fatal(err.Error())
}
