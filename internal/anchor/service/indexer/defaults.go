package indexer

import "time"

const (
	defaultChunkSize     uint64 = 5_000
	defaultConcurrency          = 8
	defaultIdleSleep            = 12 * time.Second
	defaultErrorSleep           = 5 * time.Second
	defaultFlushSize            = 1_000
	defaultFlushInterval        = 5 * time.Second
)
