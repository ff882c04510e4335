package http

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shapestone/shape-core/pkg/ast"
)

// The AST bridge maps HTTP messages onto shape-core AST nodes so that
// generic shape tooling can inspect and transform them.
//
// Request:
//
//	{ "type": "request", "method": "GET", "path": "/index.html",
//	  "version": "HTTP/1.1",
//	  "headers": [{"key": "Host", "value": "example.com"}, ...] }
//
// Response:
//
//	{ "type": "response", "version": "HTTP/1.1", "statusCode": 200,
//	  "reason": "OK",
//	  "headers": [{"key": "Content-Type", "value": "text/html"}, ...],
//	  "body": "..." }

var zeroPos = ast.Position{}

// ParseAST parses an HTTP message and returns it as an AST ObjectNode.
// The message type is auto-detected as in Unmarshal.
func ParseAST(data []byte) (ast.SchemaNode, error) {
	if DetectMessageType(data) == "response" {
		resp, err := UnmarshalResponse(data)
		if err != nil {
			return nil, err
		}
		return responseToNode(resp), nil
	}
	req, err := UnmarshalRequest(data)
	if err != nil {
		return nil, err
	}
	return requestToNode(req), nil
}

func requestToNode(req *Request) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"type":    ast.NewLiteralNode("request", zeroPos),
		"method":  ast.NewLiteralNode(req.Method, zeroPos),
		"path":    ast.NewLiteralNode(req.Path, zeroPos),
		"version": ast.NewLiteralNode(req.Proto, zeroPos),
		"headers": headersToNode(req.Headers),
	}
	return ast.NewObjectNode(props, zeroPos)
}

func responseToNode(resp *Response) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"type":       ast.NewLiteralNode("response", zeroPos),
		"version":    ast.NewLiteralNode(resp.Proto, zeroPos),
		"statusCode": ast.NewLiteralNode(int64(resp.StatusCode), zeroPos),
		"reason":     ast.NewLiteralNode(resp.Reason, zeroPos),
		"headers":    headersToNode(resp.Headers),
	}
	if resp.Body != nil {
		props["body"] = ast.NewLiteralNode(string(resp.Body), zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// headersToNode emits headers in sorted name order so the node shape
// is deterministic for a given message.
func headersToNode(headers Headers) ast.SchemaNode {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	elements := make([]ast.SchemaNode, len(names))
	for i, name := range names {
		elements[i] = ast.NewObjectNode(map[string]ast.SchemaNode{
			"key":   ast.NewLiteralNode(name, zeroPos),
			"value": ast.NewLiteralNode(headers[name], zeroPos),
		}, zeroPos)
	}
	return ast.NewArrayDataNode(elements, zeroPos)
}

// NodeToRequest converts an AST ObjectNode back to a Request.
func NodeToRequest(node ast.SchemaNode) (*Request, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("http: expected ObjectNode, got %T", node)
	}

	props := obj.Properties()
	req := &Request{}
	req.Method = stringProp(props, "method")
	req.Path = stringProp(props, "path")
	req.Proto = stringProp(props, "version")
	if v, ok := props["headers"]; ok {
		hdrs, err := nodeToHeaders(v)
		if err != nil {
			return nil, err
		}
		req.Headers = hdrs
	}
	return req, nil
}

// NodeToResponse converts an AST ObjectNode back to a Response.
func NodeToResponse(node ast.SchemaNode) (*Response, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("http: expected ObjectNode, got %T", node)
	}

	props := obj.Properties()
	resp := &Response{}
	resp.Proto = stringProp(props, "version")
	resp.Reason = stringProp(props, "reason")
	if v, ok := props["statusCode"]; ok {
		if lit, ok := v.(*ast.LiteralNode); ok {
			switch code := lit.Value().(type) {
			case int64:
				resp.StatusCode = int(code)
			case float64:
				resp.StatusCode = int(code)
			case string:
				resp.StatusCode, _ = strconv.Atoi(code)
			}
		}
	}
	if v, ok := props["headers"]; ok {
		hdrs, err := nodeToHeaders(v)
		if err != nil {
			return nil, err
		}
		resp.Headers = hdrs
	}
	if body := stringProp(props, "body"); body != "" {
		resp.Body = []byte(body)
	}
	return resp, nil
}

func stringProp(props map[string]ast.SchemaNode, name string) string {
	v, ok := props[name]
	if !ok {
		return ""
	}
	lit, ok := v.(*ast.LiteralNode)
	if !ok {
		return ""
	}
	s, _ := lit.Value().(string)
	return s
}

func nodeToHeaders(node ast.SchemaNode) (Headers, error) {
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("http: expected ArrayDataNode for headers, got %T", node)
	}

	elements := arr.Elements()
	headers := make(Headers, len(elements))
	for _, elem := range elements {
		obj, ok := elem.(*ast.ObjectNode)
		if !ok {
			continue
		}
		props := obj.Properties()
		headers[stringProp(props, "key")] = stringProp(props, "value")
	}
	return headers, nil
}
