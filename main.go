package main

import (
	"os"

	"github.com/ben-spiller/FlashTeacher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
