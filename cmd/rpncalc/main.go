// Command rpncalc evaluates arithmetic expressions over arbitrary-precision
// decimals.
package main

import (
	"os"

	"github.com/zephyrtronium/rpn/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
