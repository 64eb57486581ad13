package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightcrawler/redis-rpc-gateway/internal/dispatch"
	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
)

// handleRPC serves POST /rpc/: a single JSON-RPC 2.0 request object or
// a batch array (spec.md §6).
func (s *Server) handleRPC(c echo.Context) error {
	body, err := rawBody(c)
	if err != nil || !json.Valid(body) {
		return c.JSON(http.StatusOK, singleErrorBody(nil, rpcerr.New(rpcerr.ParseError, "request body is not valid JSON", nil)))
	}

	if isJSONArray(body) {
		responses, rpcErr := s.dispatcher.Batch(c.Request().Context(), body)
		if rpcErr != nil {
			return c.JSON(http.StatusOK, singleErrorBody(nil, rpcErr))
		}
		return c.JSON(http.StatusOK, responses)
	}

	resp := s.dispatcher.Single(c.Request().Context(), body)
	return c.JSON(http.StatusOK, resp)
}

func rawBody(c echo.Context) (json.RawMessage, error) {
	req := c.Request()
	if req.Body == nil {
		return json.RawMessage("null"), nil
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(req.Body); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(buf.Bytes()), nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

func singleErrorBody(id any, rpcErr *rpcerr.Error) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    rpcErr.Code,
			"message": rpcErr.Message,
			"data":    rpcErr.Data,
		},
	}
}

// handleStatus serves GET /rpc/status: the ordered list of pool status
// bundles (spec.md §6, §4.6).
func (s *Server) handleStatus(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, s.pools.StatusAll(ctx))
}

// handleInspect serves GET /rpc/inspect: the command table's name ->
// signature map (spec.md §6, §9's command-table design note).
func (s *Server) handleInspect(c echo.Context) error {
	return c.JSON(http.StatusOK, dispatch.Describe())
}
