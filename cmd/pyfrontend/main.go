package main

import "github.com/scriptlang/pyfrontend/pkg/cmd"

func main() {
	cmd.Execute()
}
