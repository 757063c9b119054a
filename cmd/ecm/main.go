package main

import (
	"os"

	"github.com/erguvanco/ecm-mrv-sub003/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
