// Package main provides the entry point for the kanbo CLI.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		fatal(err)
		os.Exit(1)
	}
}
