package signals

import (
	"context"

	"github.com/maniartech/signals"
)

// RangeStoredData describes a weekday range newly persisted for a rule
type RangeStoredData struct {
	Rule      string
	Canonical string
	Position  int
}

// RangeStored fires once per inserted range, after the transaction commits
var RangeStored = signals.New[RangeStoredData]()

// EmitRangeStored emits a RangeStored signal
func EmitRangeStored(ctx context.Context, data RangeStoredData) {
	RangeStored.Emit(ctx, data)
}

// OnRangeStored registers a handler for stored ranges
func OnRangeStored(handler func(ctx context.Context, data RangeStoredData), key ...string) {
	if len(key) > 0 {
		RangeStored.AddListener(handler, key[0])
	} else {
		RangeStored.AddListener(handler)
	}
}

// RemoveRangeStoredListener unregisters the handler added under key
func RemoveRangeStoredListener(key string) {
	RangeStored.RemoveListener(key)
}
