// Package bridge implements the nested-value bridge: read a value out of a
// YAML document by key path, send it to an HTTP endpoint, and write the JSON
// response into a fresh YAML document at another key path.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pathbridge/internal/document"
	"pathbridge/internal/logging"
	"pathbridge/internal/types"
)

// Placeholder is the literal token in a body template that gets replaced by
// the stringified extracted value. Substitution happens on the template's
// JSON serialization, which is then re-parsed, so the token may appear
// anywhere, including inside nested strings.
const Placeholder = "{input_text}"

// Request describes one bridge invocation.
type Request struct {
	InputPath  string   // YAML document to read
	OutputPath string   // YAML document to write
	InputKeys  []string // key path of the value to extract
	OutputKeys []string // key path for the response; empty means the response IS the document

	URL         string
	Method      string            // defaults to POST
	Headers     map[string]string // defaults to Content-Type: application/json when empty
	QueryParams map[string]string

	// BodyTemplate, when set, is serialized with Placeholder substituted.
	// When nil the body is {"text": <extracted value>}.
	BodyTemplate *document.Node
}

// Bridge executes bridge requests. Construct with New.
type Bridge struct {
	client *http.Client
	log    *zap.Logger
}

// New returns a bridge using the given HTTP client, or http.DefaultClient
// when nil. No timeout is imposed here; callers bound the call through ctx.
func New(client *http.Client) *Bridge {
	if client == nil {
		client = http.DefaultClient
	}
	return &Bridge{client: client, log: logging.Named(logging.CategoryBridge)}
}

// Process runs the full sequence: load, extract, build body, dispatch, write
// response document. Every failure mode, panics included, is reported through
// Result.Err rather than raised.
func (b *Bridge) Process(ctx context.Context, req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failure(types.ErrUnexpected, "bridge: panic: %v", r)
		}
	}()
	return b.process(ctx, req)
}

func (b *Bridge) process(ctx context.Context, req Request) Result {
	id := uuid.NewString()
	log := b.log.With(zap.String("request_id", id))

	doc, err := document.Load(req.InputPath)
	if err != nil {
		return failure(errKind(err), "bridge: %v", err)
	}

	extracted, ok := document.Extract(doc, req.InputKeys)
	if !ok {
		return failure(types.ErrNotFound, "bridge: no value at key path %s in %s",
			strings.Join(req.InputKeys, " -> "), req.InputPath)
	}
	log.Debug("value extracted", zap.String("key_path", strings.Join(req.InputKeys, ".")),
		zap.String("value", extracted.Stringify()))

	body, err := buildBody(req.BodyTemplate, extracted)
	if err != nil {
		return failure(errKind(err), "bridge: %v", err)
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodPost
	}
	log.Info("calling endpoint", zap.String("method", method), zap.String("url", req.URL))

	httpReq, err := b.newHTTPRequest(ctx, method, req, body, id)
	if err != nil {
		return failure(types.ErrNetwork, "bridge: building request: %v", err)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return failure(types.ErrNetwork, "bridge: %s %s: %v", method, req.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(types.ErrNetwork, "bridge: reading response: %v", err)
	}
	log.Info("response received", zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{
			Extracted: extracted,
			Status:    resp.StatusCode,
			Err: &Error{Kind: types.ErrAPI, Message: strings.TrimSpace(
				"bridge: endpoint returned " + resp.Status + ": " + snippet(raw))},
		}
	}

	response, err := document.ParseJSON(raw)
	if err != nil {
		return Result{Extracted: extracted, Status: resp.StatusCode,
			Err: &Error{Kind: types.ErrParse, Message: "bridge: " + err.Error()}}
	}

	outDoc := document.Skeleton(req.OutputKeys, response)
	if err := document.Save(req.OutputPath, outDoc); err != nil {
		return Result{Extracted: extracted, Status: resp.StatusCode,
			Err: &Error{Kind: types.ErrUnexpected, Message: "bridge: " + err.Error()}}
	}
	log.Info("output written", zap.String("path", req.OutputPath))

	return Result{Extracted: extracted, Status: resp.StatusCode, Response: response}
}

// buildBody constructs the request body node. With a template, every
// Placeholder occurrence in the template's JSON form is substituted with the
// stringified value and the result re-parsed; without one the body is a
// single-field mapping holding the value.
func buildBody(template *document.Node, extracted *document.Node) (*document.Node, error) {
	if template == nil {
		return document.Mapping(document.Pair{Key: "text", Value: extracted}), nil
	}
	data, err := template.MarshalJSON()
	if err != nil {
		return nil, err
	}
	substituted := strings.ReplaceAll(string(data), Placeholder, extracted.Stringify())
	return document.ParseJSON([]byte(substituted))
}

// newHTTPRequest assembles the outgoing request. GET merges the body fields
// into the query parameters (body wins on collision) and carries no payload;
// every other verb sends the body as JSON and the explicit query parameters
// alongside.
func (b *Bridge) newHTTPRequest(ctx context.Context, method string, req Request, body *document.Node, id string) (*http.Request, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, v := range req.QueryParams {
		q.Set(k, v)
	}

	var payload io.Reader
	if method == http.MethodGet {
		if body.Kind != document.KindMapping {
			return nil, errors.New("GET body must be a mapping to merge into query parameters")
		}
		for _, p := range body.Pairs {
			q.Set(p.Key, p.Value.Stringify())
		}
	} else {
		data, err := body.MarshalJSON()
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(data)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return nil, err
	}
	if len(req.Headers) == 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	} else {
		for k, v := range req.Headers {
			httpReq.Header.Set(k, v)
		}
	}
	httpReq.Header.Set("X-Request-ID", id)
	return httpReq, nil
}

// errKind maps a wrapped error onto the taxonomy, falling back to
// ErrUnexpected.
func errKind(err error) error {
	for _, kind := range []error{
		types.ErrNotFound, types.ErrParse, types.ErrNetwork,
		types.ErrAPI, types.ErrMissingColumn, types.ErrNotADirectory,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return types.ErrUnexpected
}

func snippet(raw []byte) string {
	const max = 200
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
