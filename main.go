package main

import (
	"os"

	"github.com/yeremiapane/restaurant-pos/cmd"
	"github.com/yeremiapane/restaurant-pos/utils"
)

func main() {
	if err := cmd.Execute(); err != nil {
		utils.ErrorLogger.Errorf("posd: %v", err)
		os.Exit(1)
	}
}
