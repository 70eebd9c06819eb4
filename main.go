// Command knotmosaic serves knot mosaic game sessions over HTTP.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/knotmosaic/internal"
	"github.com/rocketscienceinc/knotmosaic/internal/config"
	"github.com/rocketscienceinc/knotmosaic/internal/logger"
)

const configFile = "config.yml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "knotmosaic: %v\n", err)
		os.Exit(1)
	}
}

// run loads config.yml from the working directory and blocks until the
// server stops. config.MustLoad panics on a bad file; that panic is
// reported as an error.
func run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aborted: %v", r)
		}
	}()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	conf := config.MustLoad(filepath.Join(workDir, configFile))
	log := logger.New(conf.LogLevel, os.Stdout)

	if err = app.RunApp(log, conf); err != nil {
		return fmt.Errorf("session service stopped: %w", err)
	}

	return nil
}
