/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
)

var shouldPrintTraceLogs = false
var logLevel log.Level

// InitializeLogger initializes the logger.
func InitializeLogger() {
	log.SetHandler(text.New(os.Stdout))

	logLevelString := GetConfigStringDefault("core.log_level", "INFO")

	var err error
	logLevel, err = log.ParseLevel(logLevelString)
	if err == nil {
		log.SetLevel(logLevel)
	} else if logLevelString == "TRACE" {
		// Apex doesn't support the TRACE level, so emit them as DEBUG and filter ourselves
		log.SetLevel(log.DebugLevel)
		logLevel = log.DebugLevel
		shouldPrintTraceLogs = true
	} else {
		log.SetLevel(log.InfoLevel)
		logLevel = log.InfoLevel
	}
}

func formatMessage(module interface{}, components []interface{}) string {
	return fmt.Sprintf("[%v] ", module) + fmt.Sprint(components...)
}

// LogFatal logs a message at the FATAL level and exits.
func LogFatal(module interface{}, components ...interface{}) {
	if logLevel <= log.FatalLevel {
		log.Fatal(formatMessage(module, components))
	}
}

// LogError logs a message at the ERROR level.
func LogError(module interface{}, components ...interface{}) {
	if logLevel <= log.ErrorLevel {
		log.Error(formatMessage(module, components))
	}
}

// LogWarn logs a message at the WARN level.
func LogWarn(module interface{}, components ...interface{}) {
	if logLevel <= log.WarnLevel {
		log.Warn(formatMessage(module, components))
	}
}

// LogInfo logs a message at the INFO level.
func LogInfo(module interface{}, components ...interface{}) {
	if logLevel <= log.InfoLevel {
		log.Info(formatMessage(module, components))
	}
}

// LogDebug logs a message at the DEBUG level.
func LogDebug(module interface{}, components ...interface{}) {
	if logLevel <= log.DebugLevel {
		log.Debug(formatMessage(module, components))
	}
}

// LogTrace logs a message at the TRACE level (really just additional DEBUG messages).
func LogTrace(module interface{}, components ...interface{}) {
	if shouldPrintTraceLogs {
		log.Debug(formatMessage(module, components))
	}
}
