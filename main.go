package main

import "feedtriage/internal/app"

func main() {
	app.Main()
}
