// Command uranai runs the divination calculators offline and performs
// operational tasks: database migrations and development token minting.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
