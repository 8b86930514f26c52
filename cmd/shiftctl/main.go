// Command shiftctl runs the bulk upload normalizer against local spreadsheets
// and seeds accounts for a fresh database.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
