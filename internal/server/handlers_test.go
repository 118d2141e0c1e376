package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conftree/conftree/internal/config"
	"github.com/conftree/conftree/internal/event"
	"github.com/conftree/conftree/internal/storage"
)

const testConfig = `{
  // primary endpoint
  "server": {
    "port": 8080
  },
  "mode": "dev",
  "secret": "hunter2"
}
`

const testSchema = `{
  "fields": {
    "server": {
      "port": {
        "label": "Port",
        "type": "int",
        "range": {"min": 1024, "max": 65535},
        "unit": "tcp"
      }
    },
    "mode": {
      "type": "enum",
      "enum": ["dev", "prod"]
    },
    "secret": {
      "visible": false
    }
  }
}
`

func setupTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	event.Reset()
	t.Cleanup(event.Reset)

	dir := t.TempDir()
	file := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(file, []byte(testConfig), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app_Schema.json"), []byte(testSchema), 0o644))

	store := storage.New(filepath.Join(dir, "storage"))
	srv := New(DefaultConfig(), &config.Config{}, store)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, file
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func openTestDocument(t *testing.T, srv *Server, file string) DocumentInfo {
	t.Helper()
	w := doRequest(t, srv, "POST", "/document", map[string]string{"file": file})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var info DocumentInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	require.NotEmpty(t, info.ID)
	return info
}

func TestOpenDocument(t *testing.T) {
	srv, file := setupTestServer(t)

	info := openTestDocument(t, srv, file)
	assert.Equal(t, file, info.File)
	assert.True(t, info.Valid)
	assert.NotEmpty(t, info.Schema)
	assert.Empty(t, info.Modified)
}

func TestOpenDocument_MissingFile(t *testing.T) {
	srv, _ := setupTestServer(t)

	w := doRequest(t, srv, "POST", "/document", map[string]string{"file": "/nonexistent/app.json"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, ErrCodeIOError, resp.Error.Code)
}

func TestOpenDocument_NoFile(t *testing.T) {
	srv, _ := setupTestServer(t)

	w := doRequest(t, srv, "POST", "/document", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownDocumentID(t *testing.T) {
	srv, _ := setupTestServer(t)

	w := doRequest(t, srv, "GET", "/document/nope/value?path=mode", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetValue(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "GET", "/document/"+info.ID+"/value?path=server.port", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "number", resp["kind"])
	assert.Equal(t, float64(8080), resp["value"])
	assert.Equal(t, false, resp["modified"])
}

func TestGetValue_NotFound(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "GET", "/document/"+info.ID+"/value?path=server.host", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateValue(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "PUT", "/document/"+info.ID+"/value", map[string]any{
		"path":  "server.port",
		"value": "9000",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, true, resp["modified"])

	w = doRequest(t, srv, "GET", "/document/"+info.ID+"/value?path=server.port", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, float64(9000), resp["value"])
}

func TestUpdateValue_ValidationFailed(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "PUT", "/document/"+info.ID+"/value", map[string]any{
		"path":  "server.port",
		"value": 99,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, ErrCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "Value must be >= 1024.", resp.Error.Message)
}

func TestUpdateValue_ArrayRangeIsOptions(t *testing.T) {
	srv, file := setupTestServer(t)

	// An array-valued range is a fixed option list, not an interval.
	schemaPath := filepath.Join(filepath.Dir(file), "app_Schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{
  "fields": {
    "server": {
      "port": {
        "type": "int",
        "range": [3000, 9000]
      }
    }
  }
}`), 0o644))
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "PUT", "/document/"+info.ID+"/value", map[string]any{
		"path":  "server.port",
		"value": 4000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, ErrCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "Value must be one of 3000, 9000.", resp.Error.Message)

	w = doRequest(t, srv, "PUT", "/document/"+info.ID+"/value", map[string]any{
		"path":  "server.port",
		"value": 3000,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestUpdateValue_CoercionFailed(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "PUT", "/document/"+info.ID+"/value", map[string]any{
		"path":  "server.port",
		"value": "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, ErrCodeCoercionFailed, resp.Error.Code)
}

func TestUpdateValue_UnknownPath(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "PUT", "/document/"+info.ID+"/value", map[string]any{
		"path":  "server.host.name",
		"value": "x",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTree_HidesInvisibleFields(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "GET", "/document/"+info.ID+"/tree", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var root TreeNode
	require.NoError(t, json.NewDecoder(w.Body).Decode(&root))
	assert.Equal(t, "object", root.Kind)

	paths := make([]string, 0, len(root.Children))
	for _, c := range root.Children {
		paths = append(paths, c.Path)
	}
	assert.Contains(t, paths, "server")
	assert.Contains(t, paths, "mode")
	assert.NotContains(t, paths, "secret")
}

func TestTree_SchemaAnnotations(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "GET", "/document/"+info.ID+"/tree?path=server.port", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var node TreeNode
	require.NoError(t, json.NewDecoder(w.Body).Decode(&node))
	assert.Equal(t, "Port", node.Label)
	assert.Equal(t, "tcp", node.Unit)
	assert.Equal(t, "integer", node.Type)
	assert.Equal(t, float64(8080), node.Value)
}

func TestArrayOps(t *testing.T) {
	srv, file := setupTestServer(t)

	require.NoError(t, os.WriteFile(file, []byte(`{"tags": ["a", "b"]}`), 0o644))
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "POST", "/document/"+info.ID+"/array/add", map[string]any{
		"path":  "tags",
		"value": "c",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, float64(2), resp["index"])

	idx := 0
	w = doRequest(t, srv, "POST", "/document/"+info.ID+"/array/clone", map[string]any{
		"path":  "tags",
		"index": idx,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, "POST", "/document/"+info.ID+"/array/remove", map[string]any{
		"path": "tags",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, "GET", "/document/"+info.ID+"/modified", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mod map[string][]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&mod))
	assert.Equal(t, []string{"tags"}, mod["modified"])
}

func TestArrayOps_NotArray(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "POST", "/document/"+info.ID+"/array/add", map[string]any{
		"path":  "mode",
		"value": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveAndDiff(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "PUT", "/document/"+info.ID+"/value", map[string]any{
		"path":  "mode",
		"value": "prod",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, srv, "GET", "/document/"+info.ID+"/diff", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var diff map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&diff))
	assert.NotEmpty(t, diff["diff"])

	w = doRequest(t, srv, "POST", "/document/"+info.ID+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mode": "prod"`)

	// Saving clears the modified set and the diff.
	w = doRequest(t, srv, "GET", "/document/"+info.ID+"/diff", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&diff))
	assert.Empty(t, diff["diff"])
}

func TestReloadDocument(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "PUT", "/document/"+info.ID+"/value", map[string]any{
		"path":  "mode",
		"value": "prod",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, "POST", "/document/"+info.ID+"/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded DocumentInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&reloaded))
	assert.Empty(t, reloaded.Modified)
}

func TestGetSchema(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "GET", "/document/"+info.ID+"/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Attached bool        `json:"attached"`
		Path     string      `json:"path"`
		Fields   []FieldInfo `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Attached)
	assert.NotEmpty(t, resp.Path)

	byPath := map[string]FieldInfo{}
	for _, f := range resp.Fields {
		byPath[f.Path] = f
	}
	port := byPath["server.port"]
	assert.Equal(t, "integer", port.Type)
	require.NotNil(t, port.Min)
	assert.Equal(t, float64(1024), *port.Min)
	secret := byPath["secret"]
	assert.False(t, secret.Visible)
}

func TestDetachSchema(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "DELETE", "/document/"+info.ID+"/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, "GET", "/document/"+info.ID+"/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, false, resp["attached"])
}

func TestPinRoundTrip(t *testing.T) {
	srv, file := setupTestServer(t)
	schemaPath := filepath.Join(filepath.Dir(file), "app_Schema.json")

	w := doRequest(t, srv, "PUT", "/schema/pin", map[string]string{
		"file":   file,
		"schema": schemaPath,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, srv, "GET", "/schema/pin?file="+file, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, true, resp["pinned"])
	assert.Equal(t, schemaPath, resp["schema"])

	w = doRequest(t, srv, "DELETE", "/schema/pin?file="+file, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, "GET", "/schema/pin?file="+file, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, false, resp["pinned"])
}

func TestCloseDocument(t *testing.T) {
	srv, file := setupTestServer(t)
	info := openTestDocument(t, srv, file)

	w := doRequest(t, srv, "DELETE", "/document/"+info.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, "GET", "/document/"+info.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDocuments(t *testing.T) {
	srv, file := setupTestServer(t)

	w := doRequest(t, srv, "GET", "/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var docs []DocumentInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&docs))
	assert.Empty(t, docs)

	openTestDocument(t, srv, file)

	w = doRequest(t, srv, "GET", "/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&docs))
	assert.Len(t, docs, 1)
}
