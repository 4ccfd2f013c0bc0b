package main

import (
	"errors"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rubenv/osmgraph/cmd"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("osmgraph: ")

	err := cmd.Run()
	if err == nil {
		return
	}

	// Usage errors exit with 2, everything else with 1
	var ferr *flags.Error
	if errors.As(err, &ferr) {
		log.Print(err)
		os.Exit(2)
	}
	log.Fatal(err)
}
