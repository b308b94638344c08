package main

import "github.com/noah-isme/toko-pos/internal/cli"

func main() {
	cli.Execute()
}
