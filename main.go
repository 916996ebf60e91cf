package main

import (
	"fmt"
	"os"

	"whiteboard/internal/app"
	"whiteboard/internal/config"
)

const usage = `usage: whiteboard [command]

commands:
  serve   run the HTTP and websocket server (default)
  mcp     run the MCP server on stdin/stdout
`

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg := config.Load()

	var err error
	switch cmd {
	case "serve":
		err = app.ServeHTTP(cfg)
	case "mcp":
		err = app.ServeMCP(cfg)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
