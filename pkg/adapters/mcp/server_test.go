package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/formcheck"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupSchema = `{"type": "object", "shape": {
	"email": {"type": "string", "email": true},
	"age":   {"type": "number", "min": 18}
}}`

func TestHandleValidate(t *testing.T) {
	s := NewServer(formcheck.New())
	ctx := context.Background()

	resp, err := s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"schema": signupSchema,
		"value":  `{"email": "a@b.co", "age": 30}`,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Errors)

	resp, err = s.handleValidate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"schema": signupSchema,
		"value":  `{"email": "nope", "age": 12}`,
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, schema.CodeNumberMin, resp.Errors[0].Code)
	assert.Equal(t, "Number must be at least 18", resp.Errors[0].Message)
	assert.Equal(t, schema.CodeStringEmail, resp.Errors[1].Code)
}

func TestHandleValidate_ParseError(t *testing.T) {
	s := NewServer(formcheck.New())

	resp, err := s.handleValidate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"schema": `{"type": "string"`,
		"value":  `"x"`,
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, schema.CodeParseError, resp.Errors[0].Code)
	assert.Contains(t, resp.Errors[0].Message, "Invalid schema JSON")
}

func TestHandleValidateAtPath(t *testing.T) {
	s := NewServer(formcheck.New())
	ctx := context.Background()

	resp, err := s.handleValidateAtPath(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"schema": signupSchema,
		"value":  `{"email": "nope", "age": 12}`,
		"path":   `["age"]`,
	})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, []string{"age"}, resp.Errors[0].Path)

	resp, err = s.handleValidateAtPath(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"schema": signupSchema,
		"value":  `{}`,
		"path":   `["name"]`,
	})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, schema.CodeInvalidPath, resp.Errors[0].Code)

	resp, err = s.handleValidateAtPath(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"schema": signupSchema,
		"value":  `{}`,
		"path":   `"age"`,
	})
	require.NoError(t, err)
	assert.Equal(t, schema.CodeParseError, resp.Errors[0].Code)
}

func TestHandleValidateNamed(t *testing.T) {
	v := formcheck.New()
	ctx := context.Background()
	sch, err := schema.ParseJSON([]byte(signupSchema))
	require.NoError(t, err)
	require.NoError(t, v.SaveSchema(ctx, "signup", sch))
	s := NewServer(v)

	resp, err := s.handleValidateNamed(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"name":  "signup",
		"value": `{"email": "a@b.co"}`,
	})
	require.NoError(t, err)
	assert.True(t, (schema.Result{Errors: resp.Errors}).Has(schema.CodeRequired, "age"))

	resp, err = s.handleValidateNamed(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"name":  "signup",
		"value": `{"email": "a@b.co"}`,
		"path":  `["email"]`,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	_, err = s.handleValidateNamed(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"name":  "missing",
		"value": `{}`,
	})
	assert.ErrorContains(t, err, "not found")
}

func TestSchemasResource(t *testing.T) {
	v := formcheck.New()
	ctx := context.Background()
	require.NoError(t, v.SaveSchema(ctx, "b", &schema.Boolean{}))
	require.NoError(t, v.SaveSchema(ctx, "a", &schema.Number{}))
	s := NewServer(v)

	contents, err := s.handleSchemasResource(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, SchemasURI, text.URI)
	assert.JSONEq(t, `["a", "b"]`, text.Text)
}

func TestToolsList(t *testing.T) {
	s := NewServer(formcheck.New())

	msg := s.mcpServer.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`))
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	for _, name := range []string{"validate", "validate_at_path", "validate_named", "list_schemas"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}
