package server

import (
	"context"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	coreGrpc "github.com/msto63/resb/pkg/core/grpc"
)

// Client calls a remote ResourceService
type Client struct {
	conn *grpc.ClientConn
}

// Result is a resolved resource as returned by Get
type Result struct {
	BaseName string
	// Locale is the bundle the value was found in, which may be a fallback
	Locale   string
	Key      string
	Kind     string
	Value    *structpb.Value
}

// Dial connects to a ResourceService at target
func Dial(target string, timeout time.Duration) (*Client, error) {
	conn, err := coreGrpc.DialWithTimeout(target, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// NewClient uses an existing connection
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Get resolves path in baseName for localeID with locale fallback. An empty
// localeID selects the server's default locale.
func (c *Client) Get(ctx context.Context, baseName, localeID string, path ...string) (*Result, error) {
	return c.get(ctx, request{BaseName: baseName, Locale: localeID, Path: path})
}

// GetDirect is Get without locale fallback
func (c *Client) GetDirect(ctx context.Context, baseName, localeID string, path ...string) (*Result, error) {
	return c.get(ctx, request{BaseName: baseName, Locale: localeID, Path: path, Direct: true})
}

func (c *Client) get(ctx context.Context, req request) (*Result, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodGet, encodeRequest(req), out); err != nil {
		return nil, err
	}
	f := out.GetFields()
	return &Result{
		BaseName: f[fieldBaseName].GetStringValue(),
		Locale:   f[fieldLocale].GetStringValue(),
		Key:      f[fieldKey].GetStringValue(),
		Kind:     f[fieldKind].GetStringValue(),
		Value:    f[fieldValue],
	}, nil
}

// Keys lists the keys visible at path
func (c *Client) Keys(ctx context.Context, baseName, localeID string, path ...string) ([]string, error) {
	out := new(structpb.Struct)
	req := request{BaseName: baseName, Locale: localeID, Path: path}
	if err := c.conn.Invoke(ctx, MethodKeys, encodeRequest(req), out); err != nil {
		return nil, err
	}

	values := out.GetFields()[fieldKeys].GetListValue().GetValues()
	keys := make([]string, len(values))
	for i, v := range values {
		keys[i] = v.GetStringValue()
	}
	return keys, nil
}

// Backend returns the backend kind serving baseName
func (c *Client) Backend(ctx context.Context, baseName string) (string, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodBackend, encodeRequest(request{BaseName: baseName}), out); err != nil {
		return "", err
	}
	return out.GetFields()[fieldBackend].GetStringValue(), nil
}

// Serving reports whether the remote service is serving
func (c *Client) Serving(ctx context.Context) (bool, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return false, err
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}
