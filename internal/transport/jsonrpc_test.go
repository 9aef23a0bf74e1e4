package transport

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"get_status","params":{"limit":5},"id":7}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "get_status", req.Method)
	require.Equal(t, json.RawMessage(`{"limit":5}`), req.Params)
	require.Equal(t, float64(7), req.ID)
}

func TestParseRequest_RejectsBadEnvelope(t *testing.T) {
	cases := map[string]string{
		"malformed json": `{"jsonrpc":`,
		"wrong version":  `{"jsonrpc":"1.0","method":"get_status","id":1}`,
		"missing method": `{"jsonrpc":"2.0","id":1}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRequest(bytes.NewBufferString(payload))
			require.Error(t, err)
		})
	}
}

func TestWriteResult(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResult(rec, 3, map[string]string{"outcome": "completed"})

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2.0", resp.JSONRPC)
	require.Nil(t, resp.Error)
	require.Equal(t, float64(3), resp.ID)
}

func TestWriteError_RidesOnHTTP200(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 1, ErrInvalidParams, "bad params", nil)

	require.Equal(t, 200, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrInvalidParams, resp.Error.Code)
	require.Equal(t, "bad params", resp.Error.Message)
	require.Nil(t, resp.Result)
}
