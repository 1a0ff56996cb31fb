// Command paramq queries a YAML or JSON document through a frozen params
// container.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Run(os.Stdin, os.Stdout, os.Stderr, os.Exit, os.Args[1:]...); err != nil {
		fmt.Fprintf(os.Stderr, "paramq: %v\n", err)
		os.Exit(1)
	}
}
