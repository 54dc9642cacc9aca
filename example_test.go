package nt_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/nt"
	"github.com/aretw0/nt/pkg/config"
	service "github.com/aretw0/nt/pkg/nt"
	"github.com/aretw0/nt/pkg/outline"
)

// Example_dryRun posts an outline to an in-memory graph and reads it back.
func Example_dryRun() {
	cfg := &config.Config{
		Filter: map[string]string{"tasks": "^(TODO|DOING)"},
	}

	svc, err := nt.New(cfg, nt.WithDryRun(true))
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	text := "- Reading list\n  - TODO Dune\n  - Neuromancer\n- Groceries"
	if _, err := svc.Post(ctx, "Books", strings.NewReader(text), service.PostOptions{}); err != nil {
		log.Fatal(err)
	}

	page, err := svc.Page(ctx, "books", service.PageOptions{
		Selection: outline.Selection{Only: []string{"tasks"}},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(page.Markdown)
	// Output:
	// - Reading list
	//   - TODO Dune
}
