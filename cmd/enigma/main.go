// Command enigma enciphers and deciphers text with a three-rotor machine.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/enigma/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.Reported(err) {
		fmt.Fprintf(os.Stderr, "enigma: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
