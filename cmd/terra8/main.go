// Command terra8 is the command-line interface for the terra8 terrain
// analysis toolkit.
package main

import (
	"fmt"
	"os"

	"github.com/terra8/terra8/internal/cmd"
)

func main() {
	if err := cmd.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
