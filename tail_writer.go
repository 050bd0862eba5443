package circular_buffer_go

// TailWriter is an io.Writer that remembers only the last bytes written to it.
// Writes never block and never fail while the writer is open; older bytes are
// overwritten. Safe for concurrent use.
type TailWriter struct {
	buffer *LockingCircularBuffer[byte]
}

func NewTailWriter(size int, opts ...Option) (*TailWriter, error) {
	buffer, err := NewLockingCircularBuffer[byte](size, opts...)
	if err != nil {
		return nil, err
	}

	return &TailWriter{buffer: buffer}, nil
}

func (writer *TailWriter) Write(p []byte) (int, error) {
	if _, err := writer.buffer.InsertBack(p...); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Bytes returns a copy of the retained bytes, oldest first.
func (writer *TailWriter) Bytes() []byte {
	return writer.buffer.Snapshot()
}

func (writer *TailWriter) String() string {
	return string(writer.Bytes())
}

func (writer *TailWriter) Len() int {
	return writer.buffer.Size()
}

// Discarded returns how many written bytes have been overwritten.
func (writer *TailWriter) Discarded() uint64 {
	return writer.buffer.Dropped()
}

func (writer *TailWriter) Reset() {
	writer.buffer.Clear()
}

func (writer *TailWriter) Close() error {
	return writer.buffer.Close()
}
