package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/nt/pkg/adapters/memory"
	"github.com/aretw0/nt/pkg/builder"
	"github.com/aretw0/nt/pkg/outline"
)

func main() {
	count := flag.Int("count", 1000, "Number of root blocks to generate")
	depth := flag.Int("depth", 3, "Children nesting depth under each root block")
	flag.Parse()

	// 1. Generate an outline
	startGen := time.Now()
	text := generate(*count, *depth)
	lines := strings.Count(text, "\n") + 1
	fmt.Printf("Generated %d lines in %v\n", lines, time.Since(startGen))

	// 2. Parse
	startParse := time.Now()
	page, err := outline.Parse(text)
	if err != nil {
		panic(err)
	}
	parseTook := time.Since(startParse)
	fmt.Printf("Parse: %v (Blocks: %d)\n", parseTook, page.Count())

	// 3. Stringify
	startStr := time.Now()
	out := outline.Stringify(page)
	strTook := time.Since(startStr)
	fmt.Printf("Stringify: %v (Round trip equal: %v)\n", strTook, out == text)

	// 4. Build against the in-memory graph (one call per line)
	graph := memory.New()
	ctx := context.Background()
	if _, err := graph.CreatePage(ctx, "Bench", nil); err != nil {
		panic(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := builder.New(graph, builder.Target{Page: "Bench", Created: true}, builder.WithLogger(logger))

	startBuild := time.Now()
	stats, err := b.Build(ctx, strings.NewReader(text))
	if err != nil {
		panic(err)
	}
	buildTook := time.Since(startBuild)
	fmt.Printf("Build: %v (Created: %d)\n", buildTook, stats.Created)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d lines):\n", lines)
	fmt.Printf("  Parse:     %v\n", parseTook)
	fmt.Printf("  Stringify: %v\n", strTook)
	fmt.Printf("  Build:     %v\n", buildTook)
	fmt.Printf("--------------------------------------------------\n")
}

func generate(count, depth int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		marker := ""
		if i%5 == 0 {
			marker = "TODO "
		}
		fmt.Fprintf(&sb, "- %sNote %d about [[Topic %d]]", marker, i, i%17)
		for d := 1; d <= depth; d++ {
			fmt.Fprintf(&sb, "\n%s- detail %d.%d", strings.Repeat("  ", d), i, d)
		}
	}
	return sb.String()
}
