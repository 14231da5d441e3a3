package labelstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/pose-label-go/domain/annotation"
)

// Summary is the label store's metadata for a whole session.
type Summary struct {
	Total      int
	Labeled    int
	Metas      map[string]annotation.FrameMeta
	Detections map[string][]annotation.DetectionBox
}

// Submission is one frame's atomic save: three boxes and two labels.
type Submission struct {
	Boxes     annotation.PoseBoxes
	Keypoints annotation.Keypoints
	Label     annotation.Label
	HandLabel annotation.Label
}

// Validate rejects incomplete submissions.
func (s Submission) Validate() error {
	if !s.Boxes.Complete() {
		return fmt.Errorf("%w: head, left hand and right hand boxes are required", ErrValidation)
	}
	for _, k := range annotation.PoseKeys {
		if s.Boxes.Get(k).Empty() {
			return fmt.Errorf("%w: %s box has no area", ErrValidation, k)
		}
	}
	if !s.Label.Valid() {
		return fmt.Errorf("%w: head pose label must be 1-%d", ErrValidation, annotation.MaxLabel)
	}
	if !s.HandLabel.Valid() {
		return fmt.Errorf("%w: hand pose label must be 1-%d", ErrValidation, annotation.MaxLabel)
	}
	return nil
}

// Store is the label store contract used by the annotation engine.
type Store interface {
	Frames(ctx context.Context) ([]string, error)
	Labels(ctx context.Context) (Summary, error)
	SaveFrame(ctx context.Context, frame string, s Submission) error
	Reset(ctx context.Context) error
	Export(ctx context.Context) (string, error)
	SaveDetections(ctx context.Context, frame string, boxes []annotation.DetectionBox, saved bool) (int, error)
	ExportDetections(ctx context.Context) (string, error)
	FrameImage(ctx context.Context, frame string) ([]byte, error)
}

// Client talks to the label store over HTTP for one session.
type Client struct {
	base    *url.URL
	session string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient returns a client for session rooted at baseURL, e.g.
// "http://localhost:8000/api".
func NewClient(baseURL, session string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse label store url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("label store url %q needs scheme and host", baseURL)
	}
	if session == "" {
		return nil, errors.New("session id is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{base: u, session: session, http: &http.Client{Timeout: timeout}, logger: logger}, nil
}

// Session returns the session id the client is bound to.
func (c *Client) Session() string { return c.session }

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.TrimRight(c.base.String(), "/") + "/" + strings.Join(escaped, "/")
}

// Frames lists the session's frame identifiers in extraction order.
func (c *Client) Frames(ctx context.Context) ([]string, error) {
	var out framesResponse
	if err := c.do(ctx, "frames", http.MethodGet, c.endpoint(c.session, "frames"), nil, &out); err != nil {
		return nil, err
	}
	return out.Frames, nil
}

// Labels fetches every frame's metadata.
func (c *Client) Labels(ctx context.Context) (Summary, error) {
	var out labelsResponse
	if err := c.do(ctx, "labels", http.MethodGet, c.endpoint("labels", c.session), nil, &out); err != nil {
		return Summary{}, err
	}
	s := Summary{
		Total:      out.TotalFrames,
		Labeled:    out.LabeledFrames,
		Metas:      make(map[string]annotation.FrameMeta, len(out.Detail)),
		Detections: make(map[string][]annotation.DetectionBox),
	}
	for _, f := range out.Detail {
		name := f.name()
		if name == "" {
			continue
		}
		s.Metas[name] = f.meta()
		if len(f.Detections) > 0 {
			s.Detections[name] = f.Detections
		}
	}
	return s, nil
}

// SaveFrame submits a frame's boxes and labels in one request.
func (c *Client) SaveFrame(ctx context.Context, frame string, s Submission) error {
	if err := s.Validate(); err != nil {
		return err
	}
	req := saveRequest{
		Boxes: wireBoxes{
			Head:      *s.Boxes.Head,
			LeftHand:  *s.Boxes.LeftHand,
			RightHand: *s.Boxes.RightHand,
		},
		Label:     int(s.Label),
		HandLabel: int(s.HandLabel),
	}
	if s.Keypoints.Complete() {
		kp := s.Keypoints.Clone()
		req.Keypoints = &kp
	}
	var out successResponse
	return c.do(ctx, "save", http.MethodPost, c.endpoint("labels", c.session, "frame", frame), req, &out)
}

// Reset clears every persisted label of the session.
func (c *Client) Reset(ctx context.Context) error {
	var out successResponse
	return c.do(ctx, "reset", http.MethodPost, c.endpoint("labels", c.session, "reset"), nil, &out)
}

// Export asks the store to package the dataset and returns its download URL.
func (c *Client) Export(ctx context.Context) (string, error) {
	var out exportResponse
	if err := c.do(ctx, "export", http.MethodPost, c.endpoint("export", c.session), nil, &out); err != nil {
		return "", err
	}
	return c.resolve(out.DownloadURL), nil
}

// SaveDetections submits the detection boxes of a frame. Boxes that cannot
// be submitted are dropped first. It returns the number of boxes sent; a
// response with saved=false is reported as ErrNotSaved.
func (c *Client) SaveDetections(ctx context.Context, frame string, boxes []annotation.DetectionBox, saved bool) (int, error) {
	valid := annotation.FilterSubmittable(boxes)
	if saved && len(valid) == 0 {
		return 0, fmt.Errorf("%w: no valid detection boxes", ErrValidation)
	}
	var out detectionsResponse
	err := c.do(ctx, "save detections", http.MethodPost, c.endpoint("labels", c.session, "frame", frame, "detections"),
		detectionsRequest{Detections: valid, Saved: saved}, &out)
	if err != nil {
		return 0, err
	}
	if saved && !out.Saved {
		if out.Message != "" {
			return 0, fmt.Errorf("%w: %s", ErrNotSaved, out.Message)
		}
		return 0, ErrNotSaved
	}
	return len(valid), nil
}

// ExportDetections packages the detection dataset.
func (c *Client) ExportDetections(ctx context.Context) (string, error) {
	var out exportResponse
	if err := c.do(ctx, "export detections", http.MethodPost, c.endpoint("export", "detections", c.session), nil, &out); err != nil {
		return "", err
	}
	return c.resolve(out.DownloadURL), nil
}

// FrameImage downloads the encoded bytes of a frame.
func (c *Client) FrameImage(ctx context.Context, frame string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(c.session, "frames", frame), nil)
	if err != nil {
		return nil, &TransportError{Op: "frame image", Err: err}
	}
	resp, err := c.send(req, "frame image")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "frame image", Status: resp.StatusCode, Err: err}
	}
	return data, nil
}

// resolve turns a server-relative download path into an absolute URL.
func (c *Client) resolve(ref string) string {
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}
	root := url.URL{Scheme: c.base.Scheme, Host: c.base.Host}
	return root.ResolveReference(r).String()
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.send(req, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// send executes req and converts non-2xx responses into TransportErrors.
// The caller closes the body of successful responses.
func (c *Client) send(req *http.Request, op string) (*http.Response, error) {
	id := uuid.NewString()
	req.Header.Set("X-Request-ID", id)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("label store request failed", "op", op, "request_id", id, "error", err)
		}
		return nil, &TransportError{Op: op, Err: err}
	}
	if c.logger != nil {
		c.logger.Debug("label store request", "op", op, "method", req.Method, "url", req.URL.String(),
			"status", resp.StatusCode, "request_id", id, "elapsed", time.Since(start))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &TransportError{Op: op, Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	return resp, nil
}

func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Detail != nil {
		if s, ok := er.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(er.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(raw))
}

var _ Store = (*Client)(nil)
