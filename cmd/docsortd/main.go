package main

import (
	"context"
	"log"

	"docsort/internal/config"
	"docsort/internal/daemonrun"
)

func main() {
	cfg, resolvedPath, exists, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !exists {
		// First run: persist the defaults so the user has something to
		// edit. Failure to write is non-fatal.
		if err := config.CreateSample(resolvedPath); err != nil {
			log.Printf("warn: unable to write sample config to %s: %v", resolvedPath, err)
		}
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err != nil {
		log.Fatalf("docsortd: %v", err)
	}
}
