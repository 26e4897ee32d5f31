package search

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultQueue is the capacity of the request and response channels.
const DefaultQueue = 8

// ErrClosed is returned by Await after Close.
var ErrClosed = errors.New("search: coordinator closed")

// Request is a remote query handed to the worker.
type Request struct {
	Query  string
	Target Target
}

// Response carries the worker's results for one Request. Query echoes the
// request so callers can label stale answers.
type Response struct {
	Query   string
	Target  Target
	Results []Result
}

// Coordinator dispatches queries. It is driven from a single goroutine;
// only the worker it starts touches the remote providers.
//
// There is no cancellation: a superseded query still produces a response
// and the most recent response to arrive wins.
type Coordinator struct {
	local    Provider
	cratesIO Provider
	cheatSh  Provider

	queue     int
	requests  chan Request
	responses chan Response
	done      chan struct{}
	started   bool
	closed    bool

	log zerolog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithQueue sets the request/response channel capacity.
func WithQueue(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.queue = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// NewCoordinator wires the three providers. Any of them may be nil, in
// which case its queries return nothing.
func NewCoordinator(local, cratesIO, cheatSh Provider, opts ...Option) *Coordinator {
	c := &Coordinator{
		local:    local,
		cratesIO: cratesIO,
		cheatSh:  cheatSh,
		queue:    DefaultQueue,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs a Local query synchronously and returns its results. Remote
// targets are queued for the worker and report pending; a full queue drops
// the new query.
func (c *Coordinator) Search(ctx context.Context, query string, target Target) ([]Result, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}
	if !target.Remote() {
		return c.Local(ctx, query), false
	}
	if c.closed {
		c.log.Warn().Str("query", query).Msg("search after close ignored")
		return nil, false
	}
	c.start()
	select {
	case c.requests <- Request{Query: query, Target: target}:
		c.log.Debug().Str("query", query).Stringer("target", target).Msg("queued remote search")
	default:
		c.log.Warn().Str("query", query).Stringer("target", target).Msg("search queue full, dropping query")
		return nil, false
	}
	return nil, true
}

// Local runs the local provider, logging and swallowing errors.
func (c *Coordinator) Local(ctx context.Context, query string) []Result {
	if c.local == nil {
		return nil
	}
	results, err := c.local.Search(ctx, query)
	if err != nil {
		c.log.Error().Err(err).Str("query", query).Msg("local search failed")
		return nil
	}
	return results
}

// Poll returns at most one finished response without blocking.
func (c *Coordinator) Poll() (Response, bool) {
	if c.responses == nil {
		return Response{}, false
	}
	select {
	case resp, ok := <-c.responses:
		if !ok {
			return Response{}, false
		}
		return resp, true
	default:
		return Response{}, false
	}
}

// Await runs a query and blocks until its response arrives or ctx is done.
// Responses for other queries are discarded. Intended for the CLI, never
// for the interactive loop.
func (c *Coordinator) Await(ctx context.Context, query string, target Target) ([]Result, error) {
	results, pending := c.Search(ctx, query, target)
	if !pending {
		if target.Remote() && c.closed {
			return nil, ErrClosed
		}
		return results, nil
	}
	query = strings.TrimSpace(query)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case resp, ok := <-c.responses:
			if !ok {
				return nil, ErrClosed
			}
			if resp.Query == query && resp.Target == target {
				return resp.Results, nil
			}
		}
	}
}

// Close stops accepting queries. The worker exits after finishing the
// request it is running; queued requests are still answered.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.started {
		close(c.requests)
	}
}

// Done is closed once the worker has exited. It is nil if no remote query
// was ever made.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

func (c *Coordinator) start() {
	if c.started {
		return
	}
	c.started = true
	c.requests = make(chan Request, c.queue)
	c.responses = make(chan Response, c.queue)
	c.done = make(chan struct{})
	go c.run(c.requests, c.responses, c.done)
}

func (c *Coordinator) run(requests <-chan Request, responses chan<- Response, done chan<- struct{}) {
	defer close(done)
	defer close(responses)
	ctx := context.Background()
	for req := range requests {
		resp := Response{Query: req.Query, Target: req.Target}
		switch req.Target {
		case TargetCratesIO:
			resp.Results = c.remote(ctx, c.cratesIO, req)
		case TargetCheatSh:
			resp.Results = c.remote(ctx, c.cheatSh, req)
		case TargetAll:
			resp.Results = append(c.remote(ctx, c.cratesIO, req), c.remote(ctx, c.cheatSh, req)...)
		}
		select {
		case responses <- resp:
		default:
			c.log.Warn().Str("query", req.Query).Msg("search response queue full, dropping results")
		}
	}
}

func (c *Coordinator) remote(ctx context.Context, p Provider, req Request) []Result {
	if p == nil {
		return nil
	}
	results, err := p.Search(ctx, req.Query)
	if err != nil {
		c.log.Error().Err(err).Str("query", req.Query).Stringer("target", req.Target).Msg("remote search failed")
		return nil
	}
	return results
}
