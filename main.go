package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/quotes/internal/cli"
	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()

	flush, err := logging.Setup(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	err = cli.NewRootCommand(cfg, Version+" ("+Commit+")").Execute()
	flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
