package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

// apiClient is a thin client for the daemon's reminders API.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func (c *apiClient) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

// mcpCmd exposes the daemon's reminders API as MCP tools over stdio, so
// agent frontends can schedule reminders without speaking HTTP themselves.
func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the reminders API as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			token, _ := cmd.Flags().GetString("token")

			client := &apiClient{
				base:  addr,
				token: token,
				http:  &http.Client{Timeout: 10 * time.Second},
			}

			s := server.NewMCPServer("remindd", version)
			registerTools(s, client)
			return server.ServeStdio(s)
		},
	}
	cmd.Flags().String("addr", "http://127.0.0.1:8420", "Base URL of the running daemon")
	cmd.Flags().String("token", "", "API bearer token, if the daemon requires one")
	return cmd
}

func registerTools(s *server.MCPServer, client *apiClient) {
	s.AddTool(mcp.NewTool("create_reminder",
		mcp.WithDescription("Schedule a reminder for a user"),
		mcp.WithString("user", mcp.Required(),
			mcp.Description("Name of the user to remind")),
		mcp.WithString("in",
			mcp.Description("Relative delay, Go duration syntax like 30m or 2h")),
		mcp.WithString("fire_at",
			mcp.Description("Absolute RFC 3339 fire time, alternative to in")),
		mcp.WithString("text", mcp.Required(),
			mcp.Description("What to remind the user about")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, err := req.RequireString("user")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := map[string]string{"user": user, "text": text}
		if in := req.GetString("in", ""); in != "" {
			body["in"] = in
		}
		if at := req.GetString("fire_at", ""); at != "" {
			body["fire_at"] = at
		}

		data, status, err := client.do(ctx, http.MethodPost, "/api/reminders", body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("daemon unreachable: %v", err)), nil
		}
		if status != http.StatusCreated {
			return mcp.NewToolResultError(fmt.Sprintf("daemon returned %d: %s", status, data)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	s.AddTool(mcp.NewTool("list_reminders",
		mcp.WithDescription("List pending reminders"),
		mcp.WithString("room",
			mcp.Description("Restrict the list to one room")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := "/api/reminders"
		if room := req.GetString("room", ""); room != "" {
			path += "?room=" + url.QueryEscape(room)
		}

		data, status, err := client.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("daemon unreachable: %v", err)), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(fmt.Sprintf("daemon returned %d: %s", status, data)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	s.AddTool(mcp.NewTool("cancel_reminder",
		mcp.WithDescription("Cancel a pending reminder by id"),
		mcp.WithNumber("id", mcp.Required(),
			mcp.Description("Reminder id as shown by list_reminders")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, status, err := client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/reminders/%d", id), nil)
		switch {
		case err != nil:
			return mcp.NewToolResultError(fmt.Sprintf("daemon unreachable: %v", err)), nil
		case status == http.StatusNoContent:
			return mcp.NewToolResultText(fmt.Sprintf("reminder %d cancelled", id)), nil
		case status == http.StatusNotFound:
			return mcp.NewToolResultError(fmt.Sprintf("no reminder with id %d", id)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("daemon returned %d: %s", status, data)), nil
		}
	})
}
