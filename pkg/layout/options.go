package layout

import "github.com/matzehuels/mermaidboard/pkg/errors"

// Options controls spacing and box sizing. All values are layout units.
type Options struct {
	// Flowchart grid.
	ColumnSpacing float64
	RowSpacing    float64
	RouteMargin   float64 // Vertical distance between back-edge lanes

	// Label driven box sizing.
	MaxLabelChars int
	MaxLabelLines int
	CharWidth     float64
	LineHeight    float64
	PaddingX      float64
	PaddingY      float64
	MinWidth      float64
	MinHeight     float64

	// Sequence diagrams.
	LaneSpacing      float64
	HeaderGap        float64
	MessageRowHeight float64
	SelfLoopWidth    float64
}

// DefaultOptions returns the spacing used by [Compute].
func DefaultOptions() Options {
	return Options{
		ColumnSpacing: 240,
		RowSpacing:    140,
		RouteMargin:   30,

		MaxLabelChars: 24,
		MaxLabelLines: 3,
		CharWidth:     8,
		LineHeight:    20,
		PaddingX:      16,
		PaddingY:      12,
		MinWidth:      80,
		MinHeight:     48,

		LaneSpacing:      240,
		HeaderGap:        40,
		MessageRowHeight: 60,
		SelfLoopWidth:    40,
	}
}

// MaxWidth returns the widest box the options can produce.
func (o Options) MaxWidth() float64 {
	return max(o.MinWidth, float64(o.MaxLabelChars)*o.CharWidth+2*o.PaddingX)
}

// MaxHeight returns the tallest box the options can produce.
func (o Options) MaxHeight() float64 {
	return max(o.MinHeight, float64(o.MaxLabelLines)*o.LineHeight+2*o.PaddingY)
}

// Validate checks that boxes cannot overlap under these options.
func (o Options) Validate() error {
	switch {
	case o.MaxLabelChars < 1 || o.MaxLabelLines < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "label limits must be positive")
	case o.CharWidth <= 0 || o.LineHeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "character metrics must be positive")
	case o.MaxWidth() >= o.ColumnSpacing:
		return errors.New(errors.ErrCodeInvalidConfig, "column spacing %.0f must exceed max box width %.0f", o.ColumnSpacing, o.MaxWidth())
	case o.MaxHeight() >= o.RowSpacing:
		return errors.New(errors.ErrCodeInvalidConfig, "row spacing %.0f must exceed max box height %.0f", o.RowSpacing, o.MaxHeight())
	case o.MaxWidth() >= o.LaneSpacing:
		return errors.New(errors.ErrCodeInvalidConfig, "lane spacing %.0f must exceed max box width %.0f", o.LaneSpacing, o.MaxWidth())
	case o.RouteMargin <= 0 || o.MessageRowHeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "route margin and message row height must be positive")
	}
	return nil
}
