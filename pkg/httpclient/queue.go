package httpclient

import (
	"context"
	"errors"
)

// Doer sends a single request. *Client satisfies it; tests stub it.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Completion is the outcome of one queued request.
type Completion struct {
	Request  *Request
	Response *Response
	Err      error
}

// TimedOut reports whether the request hit its timeout.
func (c Completion) TimedOut() bool {
	return errors.Is(c.Err, ErrTimeout) || (c.Response != nil && c.Response.TimedOut)
}

// NoResponse reports whether no status line came back (status 0) for a
// reason other than a timeout.
func (c Completion) NoResponse() bool {
	return !c.TimedOut() && c.StatusCode() == 0
}

// StatusCode returns the response status, or 0 when nothing was received.
func (c Completion) StatusCode() int {
	if c.Response == nil {
		return 0
	}
	return c.Response.StatusCode
}

// Body returns the response body, or "" when nothing was received.
func (c Completion) Body() string {
	return c.Response.BodyString()
}

// Queue batches requests and sends them together. It is owned by a single
// control goroutine and is not safe for concurrent use.
//
// Flush is a barrier: it sends what is pending, at most MaxConcurrent at a
// time, and returns only once every request has completed. Completions
// come back to the caller in arrival order over a channel, so callers never
// run code on transport goroutines.
type Queue struct {
	doer    Doer
	max     int
	pending []*Request
}

// NewQueue returns a Queue bounded by maxConcurrent (minimum 1).
func NewQueue(doer Doer, maxConcurrent int) *Queue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Queue{doer: doer, max: maxConcurrent}
}

// MaxConcurrent is the batch width.
func (q *Queue) MaxConcurrent() int { return q.max }

// Pending is the number of requests waiting for the next Flush.
func (q *Queue) Pending() int { return len(q.pending) }

// Enqueue adds req to the pending batch without sending it.
func (q *Queue) Enqueue(req *Request) {
	q.pending = append(q.pending, req)
}

// Submit sends req immediately, outside any batch, and returns a channel
// that yields its single Completion. The channel is buffered, so an
// abandoned Submit does not leak its goroutine.
func (q *Queue) Submit(ctx context.Context, req *Request) <-chan Completion {
	ch := make(chan Completion, 1)
	go func() {
		ch <- q.send(ctx, req)
		close(ch)
	}()
	return ch
}

// Flush sends every pending request and blocks until all have completed.
// A cancelled ctx makes outstanding requests fail fast; their completions
// are still returned.
func (q *Queue) Flush(ctx context.Context) []Completion {
	batch := q.pending
	q.pending = nil

	out := make([]Completion, 0, len(batch))
	for len(batch) > 0 {
		n := min(q.max, len(batch))
		chunk := batch[:n]
		batch = batch[n:]

		done := make(chan Completion, n)
		for _, req := range chunk {
			go func(req *Request) {
				done <- q.send(ctx, req)
			}(req)
		}
		for i := 0; i < n; i++ {
			out = append(out, <-done)
		}
	}
	return out
}

func (q *Queue) send(ctx context.Context, req *Request) Completion {
	resp, err := q.doer.Do(ctx, req)
	return Completion{Request: req, Response: resp, Err: err}
}
