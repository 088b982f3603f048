package recover

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Panic recovers a panic and logs it with its stack. Use in a defer at the
// top of every goroutine so that a panicking collector cannot take down the
// process.
func Panic(log *logrus.Entry) {
	if e := recover(); e != nil {
		log.Error(e)
		log.Info(string(debug.Stack()))
	}
}
