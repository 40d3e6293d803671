package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var commands []*cli.Command

func main() {
	app := &cli.App{
		Name:                   "sysyc",
		Usage:                  "A compiler for the SysY teaching language, targeting LLVM IR",
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Commands:               commands,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
