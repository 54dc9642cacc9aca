// Package mcp serves the outline tools over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/nt/pkg/builder"
	"github.com/aretw0/nt/pkg/nt"
	"github.com/aretw0/nt/pkg/outline"
)

const Version = "0.1.0"

type ParseRequest struct {
	Text string `json:"text"` // outline text
}

type StringifyRequest struct {
	Blocks string `json:"blocks"` // block tree as JSON
}

type PageRequest struct {
	Name string   `json:"name"`
	Less []string `json:"less,omitempty"`
	Only []string `json:"only,omitempty"`
	JSON bool     `json:"json,omitempty"`
}

type PostRequest struct {
	Page    string `json:"page"` // empty posts to today's journal
	Content string `json:"content"`
	Prepend bool   `json:"prepend,omitempty"`
}

// NewServer creates an MCP server. The page and post tools are registered
// only when svc is set.
func NewServer(svc *nt.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"nt",
		Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("parse",
		mcp.WithDescription("Parse Logseq outline text into a JSON block tree"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Indented outline text, one block per '- ' line"),
		),
	), mcp.NewTypedToolHandler(parseHandler))

	s.AddTool(mcp.NewTool("stringify",
		mcp.WithDescription("Render a JSON block tree as Logseq outline text"),
		mcp.WithString("blocks",
			mcp.Required(),
			mcp.Description("JSON array of blocks ({content, properties, marker, children})"),
		),
	), mcp.NewTypedToolHandler(stringifyHandler))

	if svc == nil {
		return s
	}

	s.AddTool(mcp.NewTool("page",
		mcp.WithDescription("Read a page of the note graph as outline text"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Page name, alias or journal date (YYYY-MM-DD)"),
		),
		mcp.WithArray("less",
			mcp.Description("Filter names or patterns of blocks to drop"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("only",
			mcp.Description("Filter names or patterns of blocks to keep"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("json",
			mcp.Description("Return the block tree as JSON instead of text"),
		),
	), mcp.NewTypedToolHandler(pageHandler(svc)))

	s.AddTool(mcp.NewTool("post",
		mcp.WithDescription("Append outline text to a page, creating it when missing"),
		mcp.WithString("page",
			mcp.Description("Target page; today's journal when empty"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Outline text to post"),
		),
		mcp.WithBoolean("prepend",
			mcp.Description("Insert before the existing content, after page properties"),
		),
	), mcp.NewTypedToolHandler(postHandler(svc)))

	return s
}

func parseHandler(_ context.Context, _ mcp.CallToolRequest, args ParseRequest) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	page, err := outline.Parse(args.Text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse outline: %v", err)), nil
	}
	return jsonResult(page)
}

func stringifyHandler(_ context.Context, _ mcp.CallToolRequest, args StringifyRequest) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Blocks) == "" {
		return mcp.NewToolResultError("blocks is required"), nil
	}
	page, err := outline.DecodeTree([]byte(args.Blocks))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid block tree: %v", err)), nil
	}
	return mcp.NewToolResultText(outline.Stringify(page)), nil
}

func pageHandler(svc *nt.Service) func(context.Context, mcp.CallToolRequest, PageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args PageRequest) (*mcp.CallToolResult, error) {
		if strings.TrimSpace(args.Name) == "" {
			return mcp.NewToolResultError("name is required"), nil
		}
		opts := nt.PageOptions{
			Format:    nt.FormatMarkdown,
			Selection: outline.Selection{Less: args.Less, Only: args.Only},
		}
		if args.JSON {
			opts.Format = nt.FormatJSON
		}
		res, err := svc.Page(ctx, args.Name, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read page: %v", err)), nil
		}
		if !res.Found {
			return mcp.NewToolResultError(fmt.Sprintf("page %q not found", res.Name)), nil
		}
		if args.JSON {
			return jsonResult(res.Blocks)
		}
		return mcp.NewToolResultText(res.Markdown), nil
	}
}

func postHandler(svc *nt.Service) func(context.Context, mcp.CallToolRequest, PostRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args PostRequest) (*mcp.CallToolResult, error) {
		if strings.TrimSpace(args.Content) == "" {
			return mcp.NewToolResultError("content is required"), nil
		}
		opts := nt.PostOptions{Mode: builder.Append}
		if args.Prepend {
			opts.Mode = builder.Prepend
		}
		res, err := svc.Post(ctx, args.Page, strings.NewReader(args.Content), opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to post: %v", err)), nil
		}
		return jsonResult(res)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
