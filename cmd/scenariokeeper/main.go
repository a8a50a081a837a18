// Command scenariokeeper edits, saves, backs up and restores scenario document
// sets from the command line.
package main

import (
	"io"
	"os"
)

var exitFunc = os.Exit

// main runs the command-line interface and exits with the code returned by cli.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
