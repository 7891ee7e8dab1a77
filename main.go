package main

import (
	"os"

	"github.com/pzhong/go-aqi-monitor/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
