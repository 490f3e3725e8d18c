// Command trainer fits the idea validation pipeline offline and writes its
// artifacts, or labels ideas from the command line with a fitted set.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
