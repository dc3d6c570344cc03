package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for graft.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Leaf-green gradient, darker towards the roots.
	s1 := termenv.String("                        __ _   ").Foreground(p.Color("#bbf7d0"))
	s2 := termenv.String("   __ _ _ __ __ _      / _| |_ ").Foreground(p.Color("#86efac"))
	s3 := termenv.String("  / _` | '__/ _` |    | |_| __|").Foreground(p.Color("#4ade80"))
	s4 := termenv.String(" | (_| | | | (_| |    |  _| |_ ").Foreground(p.Color("#22c55e"))
	s5 := termenv.String("  \\__, |_|  \\__,_|    |_|  \\__|").Foreground(p.Color("#16a34a"))
	s6 := termenv.String("  |___/                        ").Foreground(p.Color("#15803d"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Printf("  equational term rewriting %s\n", version)
	fmt.Println()
}
