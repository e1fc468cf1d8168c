package alert

import (
	"context"
	"log"

	"github.com/egyjs/order-management-backend-app/internal/eventengine/event"
)

// Sink delivers a low stock alert to the merchant. The ingredient feature
// only decides whether an alert fires; sinks own the delivery mechanism.
type Sink interface {
	Deliver(ctx context.Context, alert *event.StockRunningLowEvent) error
}

type logSink struct{}

// NewLogSink returns a sink that records alerts in the server log. It is
// always wired in, so a deployment without a broker still surfaces alerts.
func NewLogSink() *logSink {
	return &logSink{}
}

func (s *logSink) Deliver(_ context.Context, alert *event.StockRunningLowEvent) error {
	log.Printf(
		"low stock alert: ingredient %q has dropped below %d%% of its minimum stock level (%d of %d left)\n",
		alert.IngredientName,
		alert.ThresholdPercent,
		alert.StockLevel,
		alert.MinStockLevel,
	)

	return nil
}
