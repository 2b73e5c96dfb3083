// Package main is the entry point for the tennismetrics CLI tool, which turns
// per-session tennis shot and point tables into a chronological per-player
// metrics dataset.
package main

import "github.com/pable/go-tennis-metrics/cmd"

func main() {
	cmd.Execute()
}
