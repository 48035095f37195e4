// Command slicerweb serves the slicer front-end API.
//
//	slicerweb serve            run the HTTP service (default)
//	slicerweb extract-schema   write the engine's configuration payload to a file
//	slicerweb dump-schema      print the built schema for inspection
//
// Flags and an optional slicerweb.toml in the working directory configure
// every command.
package main

import (
	"cogentcore.org/core/cli"

	"slicerweb/internal/config"
)

func main() {
	opts := cli.DefaultOptions("slicerweb", "Browser slicer front-end service.")
	cli.Run(opts, &config.Config{},
		&cli.Cmd[*config.Config]{
			Func: Serve,
			Name: "serve",
			Doc:  "Serve runs the HTTP service.",
			Root: true,
		},
		&cli.Cmd[*config.Config]{
			Func: ExtractSchema,
			Name: "extract-schema",
			Doc:  "ExtractSchema asks the engine to describe its configuration and writes the payload to Output.",
		},
		&cli.Cmd[*config.Config]{
			Func: DumpSchema,
			Name: "dump-schema",
			Doc:  "DumpSchema builds the schema and prints it.",
		},
	)
}
