package main

import "github.com/MeKo-Tech/imgproc/cmd/imgproc/cmd"

func main() {
	cmd.Execute()
}
