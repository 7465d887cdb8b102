// Package flags defines flags shared by several commands.
package flags

import "github.com/urfave/cli/v3"

// ProjectFlags returns the flags selecting what to scan and which interpreter
// to ask. local keeps them off subcommands when attached to the root command.
func ProjectFlags(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "root",
			Aliases:     []string{"r"},
			Usage:       "Project directory to scan",
			DefaultText: "current directory",
			Local:       local,
		},
		&cli.StringFlag{
			Name:    "python",
			Usage:   "Interpreter used to classify imports and run pip",
			Sources: cli.EnvVars("REQSCAN_PYTHON"),
			Local:   local,
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"e"},
			Usage:   "Glob pattern of files or directories to skip (repeatable)",
			Local:   local,
		},
	}
}
