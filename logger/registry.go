package logger

import (
	"sync"
)

// registry caches component loggers derived from the global logger.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

func (r *loggerRegistry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loggers = make(map[string]*Logger)
}

// Get returns the global logger tagged with the component name. The tagged
// logger is built once per component and rebuilt after SetGlobalLogger.
func Get(name string) *Logger {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if l, ok := registry.loggers[name]; ok {
		return l
	}
	l := GetGlobalLogger().WithComponent(name)
	registry.loggers[name] = l
	return l
}
