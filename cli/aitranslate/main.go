package main

import (
	"os"

	aitranslatecmder "github.com/papercomputeco/aitranslate/cmd/aitranslate"
)

func main() {
	cmd := aitranslatecmder.NewAitranslateCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
