// Package main provides musicgraph-admin, an operator tool for the
// MusicGraph database.
//
// Usage:
//
//	musicgraph-admin grant alice
//	musicgraph-admin create-user --username bob --email bob@example.com --password s3cret-pass --admin
//	musicgraph-admin seed --file taxonomy.yaml
//	musicgraph-admin connections --all
//
// Commands that write open the database directly; run them while the
// server is stopped, or follow them with reindex.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
