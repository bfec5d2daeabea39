// gosummary summarizes YouTube videos and web pages with an LLM, lets users
// chat about the result, reads it aloud, and draws a keyword mindmap.
//
// Usage:
//
//	# Start the web UI
//	gosummary serve --port 8080
//
//	# Draw a mindmap from a text file
//	gosummary mindmap notes.txt --out notes.png --tree
package main

import "github.com/olehluchkiv/gosummary/cmd"

func main() {
	cmd.Execute()
}
