package main

import "github.com/miekki-jerry/transtamps/internal/cli"

func main() {
	cli.Execute()
}
