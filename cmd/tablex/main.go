package main

import (
	"github.com/MeKo-Tech/tablex/cmd/tablex/cmd"
)

func main() {
	cmd.Execute()
}
