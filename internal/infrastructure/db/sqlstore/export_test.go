package sqlstore

// SetBatchSize overrides the IN-list batch size until the returned func runs.
func SetBatchSize(n int) (restore func()) {
	prev := batchSize
	batchSize = n
	return func() { batchSize = prev }
}
