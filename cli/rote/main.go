package main

import (
	"os"

	rotecmder "github.com/quizfolkco/rote/cmd/rote"
)

func main() {
	cmd := rotecmder.NewRoteCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
