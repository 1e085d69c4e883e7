package engine

// RecordLaserRx accounts for one accepted laser frame (spec §4.I:
// "Update rx_count, last_rx_ms"; §8 testable property 2: "rx_count =
// |accepted laser frames|"). The router calls this only after §4.C
// validation succeeds — a hash mismatch never reaches here.
func (e *Engine) RecordLaserRx(now uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.RxCount++
	e.state.LastRxMs = now
}

// RecordPeerTx accounts for one peer datagram the router handed to the
// radio and that the radio actually transmitted (spec §4.D: "on timeout
// the frame is dropped and tx_count is not incremented").
func (e *Engine) RecordPeerTx() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.TxCount++
}
