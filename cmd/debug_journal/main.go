package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/kitlaan/edmc-cargo-manifest/core/journal"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_journal <journal file>")
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	fmt.Printf("=== Parsing %s ===\n", os.Args[1])

	recognized := 0
	ignored := 0
	malformed := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		ev, err := journal.Parse(scanner.Bytes())
		if err != nil {
			malformed++
			fmt.Printf("line %d: MALFORMED: %v\n", lineNo, err)
			continue
		}
		if ev == nil {
			ignored++
			continue
		}

		recognized++
		fmt.Printf("line %d: %s at %s -> %#v\n", lineNo, ev.EventName(), ev.When().Format("15:04:05"), ev)
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nTotal lines: %d\n", lineNo)
	fmt.Printf("Recognized events: %d\n", recognized)
	fmt.Printf("Ignored lines: %d\n", ignored)
	fmt.Printf("Malformed lines: %d\n", malformed)
}
