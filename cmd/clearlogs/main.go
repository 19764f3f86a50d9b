// Command clearlogs wipes every usage log from a running store. Intended
// for resetting development databases, not for production use.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"eyewear-tracker-go/internal/client"
	"eyewear-tracker-go/internal/platform/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.NewLoader().WithDotEnv(true).WithPath(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := client.NewAPI(cfg.Client.APIBaseURL).ClearLogs(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to clear logs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s (%d removed)\n", result.Message, result.Count)
}
