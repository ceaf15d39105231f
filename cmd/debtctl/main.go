package main

import (
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/holydev99/debtSet/internal/cli"
	"github.com/holydev99/debtSet/internal/config"
	"github.com/holydev99/debtSet/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, "text")

	if err := cli.NewRootCommand(cli.ConfigOpener(cfg)).Execute(); err != nil {
		os.Exit(1)
	}
}
