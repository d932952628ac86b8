// Command pubsite serves a pubsite blog and renders its feed, crawl and tag
// index from the command line.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
