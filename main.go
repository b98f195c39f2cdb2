package main

import (
	"fmt"
	"os"
)

func main() {
	opts := newRootOptions()
	err := newRootCmd(opts).Execute()
	_ = opts.logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
