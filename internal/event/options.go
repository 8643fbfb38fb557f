package event

// PanicHandler is called when a subscriber panics.
type PanicHandler func(event any, recovered any)

type busConfig struct {
	queueSize    int
	workers      int
	panicHandler PanicHandler
}

func defaultBusConfig() busConfig {
	return busConfig{
		queueSize: 256,
		workers:   4,
	}
}

// BusOption configures a Bus during creation.
type BusOption func(*busConfig)

// WithQueueSize sets the async delivery queue capacity.
func WithQueueSize(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithWorkers sets the number of async delivery workers.
func WithWorkers(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithPanicHandler installs a callback for subscriber panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}
