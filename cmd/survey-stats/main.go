// @title Survey Stats API
// @version 1.0
// @description Asynchronous aggregation jobs over the nutrition, physical activity and obesity survey dataset.
// @host localhost:8080
// @BasePath /
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
