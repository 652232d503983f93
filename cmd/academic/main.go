package main

import (
	"os"

	"academicRecords/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
