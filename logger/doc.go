// Package logger provides structured logging for cmdutil on top of zerolog.
//
// Loggers are either console (human readable) or JSON formatted and can be
// tagged per component:
//
//	log := logger.Get("process")
//	log.Debug("spawned", logger.Fields(logger.FieldProgram, "wc"))
//
// Library code logs at debug level only; the CLI decides the level through
// config or the LOG_LEVEL environment variable.
package logger
