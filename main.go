package main

import (
	"github.com/neushore/proxima/cmd"
	"github.com/neushore/proxima/common/log"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Fatal(err)
	}
}
