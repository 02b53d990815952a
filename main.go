package main

import "github.com/khrees2412/careerpath/cmd"

func main() {
	cmd.Execute()
}
