// +build !wasm

package main

import "os"

func main() {
	os.Exit(Execute())
}
