package main

import "github.com/pfrederiksen/fortee-timetable/internal/cli"

func main() {
	cli.Execute()
}
