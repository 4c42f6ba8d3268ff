package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/liftedinit/gopay/cmd/gopay"
)

func main() {
	gopay.Execute()
}
