package main

import (
	"github.com/shouni/go-site-mirror/cmd"
)

func main() {
	cmd.Execute()
}
