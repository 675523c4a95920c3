// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Command planprops derives logical properties of query plans described by
// YAML plan definitions.
package main

import "github.com/cockroachdb/optprops/pkg/cli"

func main() {
	cli.Main()
}
