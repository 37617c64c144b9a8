package display

import (
	"errors"
	"fmt"
	"strings"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/chartdeck/render"
)

type State string

const (
	NoDataset           State = "no-dataset"
	NoConfig            State = "no-config"
	MissingRequiredKeys State = "missing-required-keys"
	NoVisibleSeries     State = "no-visible-series"
	EmptyData           State = "empty-data"
	InvalidData         State = "invalid-data"
	Ready               State = "ready"
)

// Status is the outcome of the evaluation of a chart. Missing lists the
// configuration fields or data keys to select in MissingRequiredKeys. Column
// is the id of the offending column in InvalidData.
type Status struct {
	State   State
	Missing []string
	Column  string
	Err     error
}

func (s Status) Ready() bool {
	return s.State == Ready
}

// Placeholder returns what is drawn instead of the chart. Ready has none.
func (s Status) Placeholder() render.Placeholder {
	switch s.State {
	case NoDataset:
		return render.Placeholder{
			Title: "No dataset selected",
			Hint:  "Select a dataset to start building the chart",
		}
	case NoConfig:
		return render.Placeholder{
			Title: "Chart not configured",
			Hint:  "Choose a chart type",
		}
	case MissingRequiredKeys:
		return render.Placeholder{
			Title: "Missing selection",
			Hint:  fmt.Sprintf("Select %s", strings.Join(s.Missing, ", ")),
		}
	case NoVisibleSeries:
		return render.Placeholder{
			Title: "No series to display",
			Hint:  "Add a series or make one visible",
		}
	case EmptyData:
		return render.Placeholder{
			Title: "No data",
			Hint:  "The dataset has no rows to draw",
		}
	case InvalidData:
		return render.Placeholder{
			Title: "Invalid data",
			Hint:  fmt.Sprintf("Column %s holds non numeric values", s.Column),
			Error: true,
		}
	default:
		return render.Placeholder{}
	}
}

// Input is what the state of a chart depends on. Rows are the materialized
// rows of Dataset.
type Input struct {
	Dataset *dataset.Dataset
	Rows    []dataset.Point
	Config  config.Config
	Series  []config.SeriesConfig
}

// Evaluate computes the state of a chart. The geometry is only computed, and
// returned, when every check before Ready passes.
func Evaluate(in Input, size chartdeck.Size, opts chartdeck.Options) (Status, chartdeck.Geometry) {
	if in.Dataset == nil {
		return Status{State: NoDataset}, nil
	}
	if in.Config == nil {
		return Status{State: NoConfig}, nil
	}
	if missing := chartdeck.RequiredKeys(in.Config); len(missing) > 0 {
		return Status{
			State:   MissingRequiredKeys,
			Missing: missing,
		}, nil
	}
	if in.Config.Type().Cartesian() && len(chartdeck.VisibleSeries(in.Config, in.Series)) == 0 {
		return Status{State: NoVisibleSeries}, nil
	}
	if len(in.Rows) == 0 {
		return Status{State: EmptyData}, nil
	}
	opts.Series = in.Series
	geo, err := chartdeck.Compute(in.Config, in.Rows, size, opts)
	if err == nil {
		return Status{State: Ready}, geo
	}
	return failure(err, dataset.Resolve(in.Dataset)), nil
}

func failure(err error, res dataset.Resolver) Status {
	var (
		cannot *chartdeck.CannotRenderError
		column *dataset.ColumnError
	)
	switch {
	case errors.As(err, &column):
		return Status{
			State:  InvalidData,
			Column: res.ID(column.Column),
			Err:    err,
		}
	case errors.As(err, &cannot):
		st := Status{Err: err}
		switch cannot.Reason {
		case chartdeck.ReasonNoVisibleSeries:
			st.State = NoVisibleSeries
		case chartdeck.ReasonEmptyData:
			st.State = EmptyData
		default:
			st.State = MissingRequiredKeys
			st.Missing = cannot.Keys
		}
		return st
	default:
		return Status{
			State: InvalidData,
			Err:   err,
		}
	}
}
