// cmd/cleavr/main.go
package main

import (
	"cleavr/internal/app"
	"cleavr/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
