package main

import (
	"os"

	"project_switcher/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
