package sdmgo

import "context"

// Close flushes the engine's state to the block device, if one is
// attached. Engines without persistence have nothing to release and
// Close is a no-op.
func (m *SDM) Close(ctx context.Context) error {
	if m == nil || m.persist == nil {
		return nil
	}
	return m.Flush(ctx)
}
