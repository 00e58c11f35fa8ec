package main

import (
	"log/slog"
	"net/http"
	"os"

	_ "net/http/pprof" // profiling

	"github.com/FuzzingLabs/sol-azy/internal/cli"
	"github.com/FuzzingLabs/sol-azy/internal/logging"
	"github.com/FuzzingLabs/sol-azy/internal/reverse/log"
)

func main() {
	log.Setup(logging.IsDebug())

	defer log.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
	})

	if os.Getenv("SOLAZY_PROFILE") != "" {
		go func() {
			slog.Info("Serving pprof at localhost:6060")
			if httpErr := http.ListenAndServe("localhost:6060", nil); httpErr != nil {
				slog.Error("Failed to pprof listen", "error", httpErr)
			}
		}()
	}

	cli.Execute()
}
