package mqtt

// bufferedMsg is one outbound telemetry message held for replay while the
// broker is unreachable.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer holds messages during a broker outage, oldest first. When full
// it evicts the oldest message; a stale timer event matters less than a
// fresh one. Callers synchronize access.
type ringBuffer struct {
	msgs  []bufferedMsg
	head  int // next write slot
	count int
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{msgs: make([]bufferedMsg, capacity)}
}

// push appends a message and reports whether an older one was evicted to
// make room.
func (r *ringBuffer) push(m bufferedMsg) bool {
	evicted := r.count == len(r.msgs)
	r.msgs[r.head] = m
	r.head = (r.head + 1) % len(r.msgs)
	if !evicted {
		r.count++
	}
	return evicted
}

// drainAll returns the buffered messages oldest first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		return nil
	}
	out := make([]bufferedMsg, r.count)
	oldest := (r.head - r.count + len(r.msgs)) % len(r.msgs)
	for i := range out {
		out[i] = r.msgs[(oldest+i)%len(r.msgs)]
	}
	r.count = 0
	r.head = 0
	return out
}

func (r *ringBuffer) len() int {
	return r.count
}
