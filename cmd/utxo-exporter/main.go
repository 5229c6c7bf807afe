package main

import (
	"os"
)

func main() {
	c := &command{}

	rootCmd := c.Cmd()
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln(err)
		os.Exit(1)
	}
}
