// chatstat - Chat Export Analytics
//
// chatstat parses exported chat logs and reports who talks, when, how
// much and how quickly they reply.
package main

import (
	"os"

	"github.com/ccollicutt/chatstat/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
