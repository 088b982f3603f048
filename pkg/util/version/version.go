package version

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

// GitCommit is set at build time via -ldflags.
var GitCommit = "unknown"
