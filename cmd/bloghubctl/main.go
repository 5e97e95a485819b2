package main

import "github.com/BloggingApp/bloghub/internal/ctl"

func main() {
	ctl.Execute()
}
