package main

import (
	"os"

	"github.com/chirofind/chirofind/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
