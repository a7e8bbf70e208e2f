// Command wbreport reconciles marketplace weekly realization reports with
// purchase costs and writes a multi-sheet summary workbook.
package main

import (
	"os"

	"wbreport/internal/infrastructure"
)

func main() {
	err := newRootCmd().Execute()
	infrastructure.CloseLogFile()
	if err != nil {
		os.Exit(1)
	}
}
