package main

import (
	"flag"
	"fmt"
	"os"

	"TSDB/bootstrap"
)

func main() {
	flag.Parse()
	fmt.Println("Starting app...")
	if _, err := bootstrap.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
