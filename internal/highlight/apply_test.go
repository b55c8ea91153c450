package highlight

import (
	"context"
	"errors"
	"testing"
)

func TestHighlight_AppliesOnce(t *testing.T) {
	var calls int
	var got []ColoredRange
	applier := ApplierFunc(func(ctx context.Context, ranges []ColoredRange) error {
		calls++
		got = ranges
		return nil
	})

	plan, err := Highlight(context.Background(), metricDataset(), "Metric", applier)
	if err != nil {
		t.Fatalf("Highlight failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("applier called %d times, want 1", calls)
	}
	if len(got) != 4 {
		t.Errorf("applied %d ranges, want 4", len(got))
	}
	if plan.Rows != 5 || len(plan.Groups) != 3 {
		t.Errorf("plan = %d rows / %d groups, want 5 / 3", plan.Rows, len(plan.Groups))
	}
}

func TestHighlight_EmptyDatasetSkipsApply(t *testing.T) {
	applier := ApplierFunc(func(ctx context.Context, ranges []ColoredRange) error {
		t.Error("applier should not be called")
		return nil
	})

	if _, err := Highlight(context.Background(), NewDataset([]string{"Metric"}, nil), "Metric", applier); err != nil {
		t.Fatalf("Highlight failed: %v", err)
	}
}

func TestHighlight_PropagatesApplyError(t *testing.T) {
	boom := errors.New("permission denied")
	applier := ApplierFunc(func(ctx context.Context, ranges []ColoredRange) error {
		return boom
	})

	_, err := Highlight(context.Background(), metricDataset(), "Metric", applier)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestHighlight_ColumnErrorSkipsApply(t *testing.T) {
	applier := ApplierFunc(func(ctx context.Context, ranges []ColoredRange) error {
		t.Error("applier should not be called")
		return nil
	})

	_, err := Highlight(context.Background(), metricDataset(), "Missing", applier)
	if !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("error = %v, want ErrColumnNotFound", err)
	}
}
