package main

import (
	"os"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
