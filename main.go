// Package main is the entry point for ospfdump.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/ospfdump/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
