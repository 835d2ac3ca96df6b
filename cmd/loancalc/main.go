// Command loancalc prints loan payment schedules without a database.
//
// Usage:
//
//	loancalc schedule --amount 250000 --down 50000 --years 30 --rate 6.75
//	loancalc compare --amount 1000000 --months 12 --rate 12
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
