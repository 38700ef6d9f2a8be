package main

import (
	"flag"
	"fmt"
	"os"

	"duskwave/internal/app"
	"duskwave/internal/log"
	"duskwave/internal/scene"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	mode := flag.String("mode", cfg.Mode.String(), "start mode: landscape or calm")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-mode calm] [file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if cfg.Mode, err = scene.ParseMode(*mode); err != nil {
		fmt.Fprintf(os.Stderr, "-mode: %v\n", err)
		os.Exit(2)
	}
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg.File = flag.Arg(0)

	lg := log.Stderr(cfg.LogLevel)
	if err := app.RunDesktop(cfg, lg); err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}
}
