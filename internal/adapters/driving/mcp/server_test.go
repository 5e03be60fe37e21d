package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports Ports
		want  error
	}{
		{"empty", Ports{}, ErrMissingRetrievalService},
		{"no text", Ports{Retrieval: &mockRetrievalService{}}, ErrMissingTextService},
		{"no retrieval", Ports{Text: &mockTextService{}}, ErrMissingRetrievalService},
		{"complete", Ports{Retrieval: &mockRetrievalService{}, Text: &mockTextService{}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)

			server, err := NewServer(&tt.ports)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, server)
		})
	}
}

// connect starts an in-memory session against a server over ports.
func connect(t *testing.T, ports *Ports) *mcp.ClientSession {
	t.Helper()
	s, err := NewServer(ports)
	require.NoError(t, err)

	ctx := context.Background()
	clientT, serverT := mcp.NewInMemoryTransports()
	_, err = s.server.Connect(ctx, serverT, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestServer_ListsTools(t *testing.T) {
	session := connect(t, &Ports{Retrieval: &mockRetrievalService{}, Text: &mockTextService{}})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"ask_instructions", "chunk_text", "extract_keywords"}, names)
}

func TestServer_ResourcesNeedInstructionService(t *testing.T) {
	ports := &Ports{Retrieval: &mockRetrievalService{}, Text: &mockTextService{}, Instruction: &mockInstructionService{}}
	session := connect(t, ports)

	res, err := session.ListResourceTemplates(context.Background(), nil)
	require.NoError(t, err)

	var templates []string
	for _, tmpl := range res.ResourceTemplates {
		templates = append(templates, tmpl.URITemplate)
	}
	assert.Contains(t, templates, "instruction://{id}")
	assert.Contains(t, templates, "org://{orgId}/instructions")
}

func TestServer_HandlerRejectsMalformedRequest(t *testing.T) {
	s, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Text: &mockTextService{}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not json")))

	assert.GreaterOrEqual(t, rec.Code, 400)
}
