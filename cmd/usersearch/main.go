// Command usersearch builds a fuzzy user index from a configured directory and
// queries it from the terminal. It also writes and inspects user snapshots.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
