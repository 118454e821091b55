package main

import (
	"github.com/edubook/edubook/cmd"
)

func main() {
	cmd.Execute()
}
