// Command gymctl administers a gym-admin deployment from the shell:
// operator accounts, the exercise catalog, indexes and member exports.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
