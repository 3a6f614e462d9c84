package main

import (
	"os"

	"github.com/picshed/picshed/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
