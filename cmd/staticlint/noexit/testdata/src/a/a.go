package main

import (
	"os"
	sys "os"
)

func helper() {
	os.Exit(2)
}

func main() {
	defer helper()
	os.Exit(1)  // want "вызов os.Exit в функции main запрещён"
	sys.Exit(1) // want "вызов os.Exit в функции main запрещён"
	func() {
		os.Exit(3) // want "вызов os.Exit в функции main запрещён"
	}()
}
