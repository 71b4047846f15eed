package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout carries results and the MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(debugLogger()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// debugLogger returns the standard logger when YELLOW_DETECT_LOG_LEVEL=debug
// and nil otherwise, which leaves the packages on their silent default.
func debugLogger() *log.Logger {
	if os.Getenv("YELLOW_DETECT_LOG_LEVEL") != "debug" {
		return nil
	}
	log.Printf("yellow-detect v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	return log.Default()
}
