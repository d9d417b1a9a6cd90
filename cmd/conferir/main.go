package main

import "github.com/jhoicas/conferencia-nfe/internal/interfaces/cli"

func main() {
	cli.Execute()
}
