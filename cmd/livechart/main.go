package main

import (
	"github.com/quantvis/livechart/pkg/cmd"
)

func main() {
	cmd.Execute()
}
