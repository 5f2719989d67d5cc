// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package paradedb

// Version is the release identifier, overridden at build time via
// -ldflags "-X github.com/lcp202406/paradedb.Version=...".
var Version = "v0.0.0-dev"
