package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/chartdeck/export"
	"github.com/midbel/chartdeck/ops"
	"github.com/midbel/cli"
	"golang.org/x/sync/errgroup"
)

type flagSet interface {
	IntVar(*int, string, int, string)
	StringVar(*string, string, string, string)
}

func chartFlags(set flagSet, opts *ChartOptions) {
	set.IntVar(&opts.Width, "w", 0, "width of the chart")
	set.IntVar(&opts.Height, "h", 0, "height of the chart")
	set.StringVar(&opts.Theme, "t", "", "theme (light, dark, auto)")
	set.StringVar(&opts.Operations, "p", "", "operations applied to the dataset")
}

type RenderCommand struct {
	ChartOptions
	OutFile string
}

func (c RenderCommand) Run(args []string) error {
	set := cli.NewFlagSet("render")
	chartFlags(set, &c.ChartOptions)
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("chart and dataset expected")
	}
	ds, err := loadDataset(set.Arg(1))
	if err != nil {
		return err
	}
	ch, err := openChart(set.Arg(0), ds, c.ChartOptions)
	if err != nil {
		return err
	}
	defer ch.Close()
	return output(c.OutFile, ch.Render)
}

type ExportCommand struct {
	ChartOptions
	OutFile string
	Format  string
}

func (c ExportCommand) Run(args []string) error {
	set := cli.NewFlagSet("export")
	chartFlags(set, &c.ChartOptions)
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	set.StringVar(&c.Format, "f", "", "export format (json, yaml, svg, png, jpeg, html)")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("chart and dataset expected")
	}
	format := export.ParseFormat(c.Format)
	if c.Format == "" {
		format = export.SVG
		if c.OutFile != "" {
			format = export.ParseFormat(extension(c.OutFile))
		}
	}
	ds, err := loadDataset(set.Arg(1))
	if err != nil {
		return err
	}
	ch, err := openChart(set.Arg(0), ds, c.ChartOptions)
	if err != nil {
		return err
	}
	defer ch.Close()

	reg := export.Default()
	return output(c.OutFile, func(w io.Writer) error {
		return reg.Export(w, format, ch)
	})
}

type StateCommand struct {
	Operations string
}

func (c StateCommand) Run(args []string) error {
	set := cli.NewFlagSet("state")
	set.StringVar(&c.Operations, "p", "", "operations applied to the dataset")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("chart and dataset expected")
	}
	ds, err := loadDataset(set.Arg(1))
	if err != nil {
		return err
	}
	ch, err := openChart(set.Arg(0), ds, ChartOptions{Operations: c.Operations})
	if err != nil {
		return err
	}
	defer ch.Close()

	st := ch.Status()
	fmt.Fprintln(os.Stdout, st.State)
	if st.Ready() {
		return nil
	}
	ph := st.Placeholder()
	fmt.Fprintf(os.Stdout, "%s: %s\n", ph.Title, ph.Hint)
	return errFail
}

type BatchCommand struct {
	ChartOptions
	OutDir string
	Format string
	Jobs   int
}

// Run renders every chart given with its own chart instance. The dataset is
// loaded once and only read by the charts.
func (c BatchCommand) Run(args []string) error {
	set := cli.NewFlagSet("batch")
	chartFlags(set, &c.ChartOptions)
	set.StringVar(&c.OutDir, "d", ".", "write results to directory")
	set.StringVar(&c.Format, "f", "svg", "export format (json, yaml, svg, png, jpeg, html)")
	set.IntVar(&c.Jobs, "j", 4, "number of charts rendered at the same time")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() < 2 {
		return fmt.Errorf("dataset and at least one chart expected")
	}
	ds, err := loadDataset(set.Arg(0))
	if err != nil {
		return err
	}
	var (
		format = export.ParseFormat(c.Format)
		reg    = export.Default()
	)
	grp, ctx := errgroup.WithContext(context.Background())
	if c.Jobs > 0 {
		grp.SetLimit(c.Jobs)
	}
	for _, file := range set.Args()[1:] {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.export(reg, format, file, ds)
		})
	}
	return grp.Wait()
}

func (c BatchCommand) export(reg *export.Registry, format export.Format, file string, ds *dataset.Dataset) error {
	ch, err := openChart(file, ds, c.ChartOptions)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	defer ch.Close()

	out := outputName(c.OutDir, file, string(format))
	err = output(out, func(w io.Writer) error {
		return reg.Export(w, format, ch)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	slog.Debug("chart exported", slog.String("chart", file), slog.String("file", out), slog.String("state", string(ch.State())))
	return nil
}

type OperationsCommand struct {
	OutFile string
}

func (c OperationsCommand) Run(args []string) error {
	set := cli.NewFlagSet("ops")
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("operations and dataset expected")
	}
	cfg, err := loadOperations(set.Arg(0))
	if err != nil {
		return err
	}
	ds, err := loadDataset(set.Arg(1))
	if err != nil {
		return err
	}
	res, err := ops.Apply(ds, cfg)
	if err != nil {
		return err
	}
	return output(c.OutFile, func(w io.Writer) error {
		return writeCSV(w, res)
	})
}

func extension(file string) string {
	return strings.TrimPrefix(filepath.Ext(file), ".")
}
