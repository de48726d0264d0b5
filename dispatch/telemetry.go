package dispatch

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	dispatchCount = stats.Int64(
		"govision/dispatch_count",
		"Number of successful kernel dispatches",
		stats.UnitDimensionless,
	)
	operationKey = tag.MustNewKey("operation")
)

// DispatchCountView exposes the per-operation dispatch counter for callers
// that want to register it with an opencensus exporter.
func DispatchCountView() *view.View {
	return &view.View{
		Name:        "govision/dispatch_count",
		Description: "Number of successful kernel dispatches by operation",
		Measure:     dispatchCount,
		TagKeys:     []tag.Key{operationKey},
		Aggregation: view.Count(),
	}
}

// recordDispatch emits one usage event keyed by operation name. It is
// fire-and-forget: recording failures are dropped, never surfaced to the
// dispatching caller.
func recordDispatch(opName string) {
	ctx, err := tag.New(context.Background(), tag.Upsert(operationKey, opName))
	if err != nil {
		return
	}
	stats.Record(ctx, dispatchCount.M(1))
}
