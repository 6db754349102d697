package main

import (
	"os"

	"findt/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
