package highlight

import "context"

// Applier pushes colored ranges to a spreadsheet as one batch.
// Implementations either apply every range or return an error.
type Applier interface {
	Apply(ctx context.Context, ranges []ColoredRange) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(ctx context.Context, ranges []ColoredRange) error

// Apply calls f.
func (f ApplierFunc) Apply(ctx context.Context, ranges []ColoredRange) error {
	return f(ctx, ranges)
}

// Plan is the computed formatting for one dataset.
type Plan struct {
	Rows   int
	Groups []ColorGroup
	Ranges []ColoredRange
}

// NewPlan assigns colors and compresses ranges without applying anything.
func NewPlan(ds Dataset, column string, opts ...Option) (Plan, error) {
	groups, err := AssignGroupColors(ds, column, opts...)
	if err != nil {
		return Plan{}, err
	}
	ranges, err := CompressToRanges(groups)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Rows: ds.Len(), Groups: groups, Ranges: ranges}, nil
}

// Highlight plans the formatting for ds and hands it to applier.
// Errors from the applier are returned as is.
func Highlight(ctx context.Context, ds Dataset, column string, applier Applier, opts ...Option) (Plan, error) {
	plan, err := NewPlan(ds, column, opts...)
	if err != nil {
		return Plan{}, err
	}
	if len(plan.Ranges) == 0 {
		return plan, nil
	}
	if err := applier.Apply(ctx, plan.Ranges); err != nil {
		return plan, err
	}
	return plan, nil
}
