package sim

import "go.uber.org/zap"

// assert logs and panics when a simulation invariant does not hold.
// A violation is a programming error, never a runtime condition.
func (w *WorldState) assert(cond bool, msg string, fields ...zap.Field) {
	if cond {
		return
	}
	w.log.Error("invariant violated: "+msg, fields...)
	panic("sim: invariant violated: " + msg)
}
