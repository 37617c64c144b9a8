package chartdeck

import (
	"fmt"
	"strings"
)

type Reason string

const (
	ReasonMissingKeys     Reason = "missing-keys"
	ReasonNoVisibleSeries Reason = "no-visible-series"
	ReasonEmptyData       Reason = "empty-data"
)

// CannotRenderError reports that the configuration or the data do not allow
// to draw a chart. It is not a rendering failure.
type CannotRenderError struct {
	Reason Reason
	Keys   []string
}

func (e CannotRenderError) Error() string {
	switch e.Reason {
	case ReasonMissingKeys:
		return fmt.Sprintf("chart can not be rendered: missing %s", strings.Join(e.Keys, ", "))
	case ReasonNoVisibleSeries:
		return "chart can not be rendered: no visible series"
	case ReasonEmptyData:
		return "chart can not be rendered: no data"
	default:
		return "chart can not be rendered"
	}
}

func missingKeys(keys ...string) error {
	return &CannotRenderError{
		Reason: ReasonMissingKeys,
		Keys:   keys,
	}
}

func noVisibleSeries() error {
	return &CannotRenderError{
		Reason: ReasonNoVisibleSeries,
	}
}

func emptyData() error {
	return &CannotRenderError{
		Reason: ReasonEmptyData,
	}
}
