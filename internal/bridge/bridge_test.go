package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"pathbridge/internal/document"
	"pathbridge/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeInput writes a YAML input document and returns its path plus a path
// for the output document in the same temp dir.
func writeInput(t *testing.T, yamlSrc string) (inPath, outPath string) {
	t.Helper()
	dir := t.TempDir()
	inPath = filepath.Join(dir, "input.yaml")
	outPath = filepath.Join(dir, "output.yaml")
	require.NoError(t, os.WriteFile(inPath, []byte(yamlSrc), 0o644))
	return inPath, outPath
}

func loadOutput(t *testing.T, path string) *document.Node {
	t.Helper()
	n, err := document.Load(path)
	require.NoError(t, err)
	return n
}

func TestProcess_EndToEndEcho(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"echo": body["text"]}))
	}))
	defer srv.Close()

	inPath, outPath := writeInput(t, "a:\n  b: hello\n")
	result := New(srv.Client()).Process(context.Background(), Request{
		InputPath:  inPath,
		OutputPath: outPath,
		InputKeys:  []string{"a", "b"},
		OutputKeys: []string{"x", "y"},
		URL:        srv.URL,
		Method:     "POST",
	})

	require.True(t, result.OK(), "process failed: %v", result.Err)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, "hello", result.Extracted.Value)

	// Output document is {x: {y: {echo: hello}}}.
	out := loadOutput(t, outPath)
	echo, ok := document.Extract(out, []string{"x", "y", "echo"})
	require.True(t, ok)
	assert.Equal(t, "hello", echo.Value)
}

func TestProcess_EmptyOutputPathWritesRawResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"echo": "hello"}`))
	}))
	defer srv.Close()

	inPath, outPath := writeInput(t, "a:\n  b: hello\n")
	result := New(srv.Client()).Process(context.Background(), Request{
		InputPath:  inPath,
		OutputPath: outPath,
		InputKeys:  []string{"a", "b"},
		OutputKeys: nil, // response IS the document, unwrapped
		URL:        srv.URL,
	})
	require.True(t, result.OK(), "process failed: %v", result.Err)

	out := loadOutput(t, outPath)
	echo, ok := document.Extract(out, []string{"echo"})
	require.True(t, ok)
	assert.Equal(t, "hello", echo.Value)
}

func TestProcess_TemplateSubstitutesEveryPlaceholder(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	template := document.Mapping(
		document.Pair{Key: "query", Value: document.Scalar(Placeholder)},
		document.Pair{Key: "options", Value: document.Mapping(
			document.Pair{Key: "again", Value: document.Scalar("wrapped " + Placeholder + " twice")},
		)},
	)

	inPath, outPath := writeInput(t, "a:\n  b: hello\n")
	result := New(srv.Client()).Process(context.Background(), Request{
		InputPath:    inPath,
		OutputPath:   outPath,
		InputKeys:    []string{"a", "b"},
		OutputKeys:   []string{"r"},
		URL:          srv.URL,
		BodyTemplate: template,
	})
	require.True(t, result.OK(), "process failed: %v", result.Err)

	assert.Equal(t, "hello", captured["query"])
	options := captured["options"].(map[string]any)
	assert.Equal(t, "wrapped hello twice", options["again"])
}

func TestProcess_GETMergesBodyIntoQuery(t *testing.T) {
	var gotQuery map[string][]string
	var gotBodyLen int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotBodyLen = r.ContentLength
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	inPath, outPath := writeInput(t, "a:\n  b: hello\n")
	result := New(srv.Client()).Process(context.Background(), Request{
		InputPath:  inPath,
		OutputPath: outPath,
		InputKeys:  []string{"a", "b"},
		OutputKeys: []string{"r"},
		URL:        srv.URL,
		Method:     "GET",
		QueryParams: map[string]string{
			"text": "should lose", // body field wins on collision
			"keep": "yes",
		},
	})
	require.True(t, result.OK(), "process failed: %v", result.Err)

	assert.Equal(t, "hello", gotQuery["text"][0])
	assert.Equal(t, "yes", gotQuery["keep"][0])
	assert.LessOrEqual(t, gotBodyLen, int64(0), "GET must not carry a body")
}

func TestProcess_DefaultAndExplicitHeaders(t *testing.T) {
	var contentType, custom, requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		custom = r.Header.Get("X-Custom")
		requestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	inPath, outPath := writeInput(t, "a:\n  b: hi\n")
	base := Request{
		InputPath:  inPath,
		OutputPath: outPath,
		InputKeys:  []string{"a", "b"},
		OutputKeys: []string{"r"},
		URL:        srv.URL,
	}

	// No headers supplied: JSON content type is asserted.
	result := New(srv.Client()).Process(context.Background(), base)
	require.True(t, result.OK(), "process failed: %v", result.Err)
	assert.Equal(t, "application/json", contentType)
	assert.NotEmpty(t, requestID)

	// Explicit headers are sent as given, nothing else added.
	withHeaders := base
	withHeaders.Headers = map[string]string{"X-Custom": "v1"}
	result = New(srv.Client()).Process(context.Background(), withHeaders)
	require.True(t, result.OK(), "process failed: %v", result.Err)
	assert.Equal(t, "v1", custom)
	assert.Empty(t, contentType)
}

func TestProcess_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	inPath, outPath := writeInput(t, "a:\n  b: hi\n")
	result := New(srv.Client()).Process(context.Background(), Request{
		InputPath:  inPath,
		OutputPath: outPath,
		InputKeys:  []string{"a", "b"},
		URL:        srv.URL,
	})

	require.False(t, result.OK())
	assert.ErrorIs(t, result.Err, types.ErrAPI)
	assert.Equal(t, http.StatusInternalServerError, result.Status)
	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err), "no output document on failure")
}

func TestProcess_MissingInputFile(t *testing.T) {
	result := New(nil).Process(context.Background(), Request{
		InputPath:  filepath.Join(t.TempDir(), "absent.yaml"),
		OutputPath: filepath.Join(t.TempDir(), "out.yaml"),
		InputKeys:  []string{"a"},
		URL:        "http://localhost:0",
	})
	require.False(t, result.OK())
	assert.ErrorIs(t, result.Err, types.ErrNotFound)
}

func TestProcess_MalformedInput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(inPath, []byte("a:\n\tb: 1\n"), 0o644))

	result := New(nil).Process(context.Background(), Request{
		InputPath:  inPath,
		OutputPath: filepath.Join(dir, "out.yaml"),
		InputKeys:  []string{"a"},
		URL:        "http://localhost:0",
	})
	require.False(t, result.OK())
	assert.ErrorIs(t, result.Err, types.ErrParse)
}

func TestProcess_KeyPathMiss(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	inPath, outPath := writeInput(t, "a:\n  b: hi\n")
	result := New(srv.Client()).Process(context.Background(), Request{
		InputPath:  inPath,
		OutputPath: outPath,
		InputKeys:  []string{"a", "missing"},
		URL:        srv.URL,
	})

	require.False(t, result.OK())
	assert.ErrorIs(t, result.Err, types.ErrNotFound)
	assert.Zero(t, calls, "no request must be dispatched on extraction failure")
}

func TestProcess_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := srv.Client()
	url := srv.URL
	srv.Close() // nothing listens anymore

	inPath, outPath := writeInput(t, "a:\n  b: hi\n")
	result := New(client).Process(context.Background(), Request{
		InputPath:  inPath,
		OutputPath: outPath,
		InputKeys:  []string{"a", "b"},
		URL:        url,
	})
	require.False(t, result.OK())
	assert.ErrorIs(t, result.Err, types.ErrNetwork)
}

func TestProcess_ResponseNotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	inPath, outPath := writeInput(t, "a:\n  b: hi\n")
	result := New(srv.Client()).Process(context.Background(), Request{
		InputPath:  inPath,
		OutputPath: outPath,
		InputKeys:  []string{"a", "b"},
		URL:        srv.URL,
	})
	require.False(t, result.OK())
	assert.ErrorIs(t, result.Err, types.ErrParse)
	assert.Equal(t, http.StatusOK, result.Status)
}
