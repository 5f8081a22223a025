package main

import (
	"os"

	"github.com/grovetools/workon/cmd"
	"github.com/grovetools/workon/tui/theme"
)

func main() {
	theme.InitColorProfile()
	os.Exit(cmd.Execute(os.Args[1:]))
}
