package main

import "github.com/kerbaras/lucollection/cmd/lucollection"

func main() {
	lucollection.Execute()
}
