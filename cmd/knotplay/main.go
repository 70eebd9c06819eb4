// Command knotplay plays a knotting/unknotting game in the terminal against
// the session service and draws new mosaics for it in the maker view.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rocketscienceinc/knotmosaic/internal/client"
	"github.com/rocketscienceinc/knotmosaic/internal/config"
	"github.com/rocketscienceinc/knotmosaic/internal/knotting"
	"github.com/rocketscienceinc/knotmosaic/internal/logger"
)

func main() {
	baseDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get current directory: %v\n", err)
		os.Exit(1)
	}

	conf := config.MustLoadClient(filepath.Join(baseDir, "./knotplay.yml"))
	log := logger.New(conf.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := client.New(log, conf.APIURL, conf.RequestTimeout)
	controller := knotting.NewController(log, sessions)

	if err = newConsole(controller, sessions, os.Stdin, os.Stdout).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "knotplay: %v\n", err)
		os.Exit(1)
	}
}
