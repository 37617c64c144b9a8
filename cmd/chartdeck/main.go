package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/midbel/cli"
)

var errFail = errors.New("fail")

var (
	summary = "chartdeck renders charts described by chart documents from tabular datasets"
	help    = `chartdeck reads a chart document (json or yaml) and a dataset (json or csv)
and renders the chart as a standalone svg document or exports it as an
interactive html page or as its persistable document.

options:
  -v  print debug messages on stderr
`
)

func main() {
	var (
		set     = cli.NewFlagSet("chartdeck")
		root    = prepare()
		verbose bool
	)
	set.BoolVar(&verbose, "v", false, "verbose")
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	setupLogger(verbose)

	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func setupLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(h))
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"render"}, &renderCmd)
	root.Register([]string{"export"}, &exportCmd)
	root.Register([]string{"state"}, &stateCmd)
	root.Register([]string{"batch"}, &batchCmd)
	root.Register([]string{"ops"}, &opsCmd)

	return root
}

var renderCmd = cli.Command{
	Name:    "render",
	Alias:   []string{"draw"},
	Summary: "render a chart as a standalone svg document",
	Usage:   "render [-w width] [-h height] [-t theme] [-p operations] [-o file] <chart> <dataset>",
	Handler: &RenderCommand{},
}

var exportCmd = cli.Command{
	Name:    "export",
	Summary: "export a chart to json, yaml, svg or html",
	Usage:   "export [-f format] [-w width] [-h height] [-t theme] [-p operations] [-o file] <chart> <dataset>",
	Handler: &ExportCommand{},
}

var stateCmd = cli.Command{
	Name:    "state",
	Alias:   []string{"check"},
	Summary: "print the state of a chart and what is missing to draw it",
	Usage:   "state [-p operations] <chart> <dataset>",
	Handler: &StateCommand{},
}

var batchCmd = cli.Command{
	Name:    "batch",
	Summary: "render many charts from the same dataset",
	Usage:   "batch [-d directory] [-f format] [-j jobs] [-p operations] <dataset> <chart> [<chart>,...]",
	Handler: &BatchCommand{},
}

var opsCmd = cli.Command{
	Name:    "ops",
	Alias:   []string{"transform"},
	Summary: "filter, aggregate and sort a dataset",
	Usage:   "ops [-o file] <operations> <dataset>",
	Handler: &OperationsCommand{},
}
