package main

import (
	"fmt"
	"os"

	"fedadmin/internal/errs"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fedadmin:", errs.Message(err))
		os.Exit(1)
	}
}
