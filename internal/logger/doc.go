// Package logger provides structured logging for formseed using zerolog.
//
// It supports JSON and console output formats, log level configuration,
// and component-scoped loggers with structured fields.
//
// # Usage
//
//	log := logger.WithComponent("seeder")
//	log.Info("user created", logger.Fields(logger.FieldEmail, email))
package logger
