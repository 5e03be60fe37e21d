package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tetrivo/tetra/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve instruction retrieval to an assistant",
	Long: `Serves the MCP tools ask_instructions, extract_keywords and chunk_text,
and the resources instruction://{id}, instruction://{id}/details and
org://{orgId}/instructions.

Stdio is used unless --port is given. An assistant launches it with:

  {"mcpServers": {"tetra": {"command": "tetra", "args": ["mcp", "serve"]}}}

Use 'tetra serve --mcp' to serve MCP next to the HTTP API instead.`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve streamable HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Ports{
		Retrieval:   retrievalService,
		Text:        textService,
		Instruction: instructionService,
	})
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := newMCPServer()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	if mcpPort <= 0 {
		return server.Run(ctx)
	}

	addr := fmt.Sprintf(":%d", mcpPort)
	cmd.Printf("MCP server listening on http://localhost%s\n", addr)
	return server.RunHTTP(ctx, addr)
}
