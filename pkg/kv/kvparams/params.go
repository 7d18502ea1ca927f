package kvparams

type Config struct {
	Type   string
	Badger *Badger
	Mem    *Mem
}

type Badger struct {
	// Path - directory path to store the DB files
	Path string
	// SyncWrites - sync data to disk on each write instead of mem cache
	SyncWrites bool
	// PrefetchSize - number of elements to prefetch while iterating
	PrefetchSize int
	// EnableLogging - enable store and badger (trace only) logging
	EnableLogging bool
}

type Mem struct{}
