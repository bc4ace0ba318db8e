// Package main provides the entry point for the pypistat CLI.
//
// pypistat collects PyPI download statistics from pypistats.org and
// writes them to CSV files, the console, JSON, or Markdown.
//
// Usage:
//
//	pypistat get <package>
//	pypistat recent <package>
//
// See --help for all available options.
package main

// main is the entry point for pypistat.
func main() {
	Execute()
}
