// Package plugin runs a plan generator out of process over hashicorp/go-plugin.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"net/rpc"
	"time"

	"github.com/hashicorp/go-plugin"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
)

// Name is the key the generator is dispensed under.
const Name = "planner"

// Handshake must match between strand and the planner binary.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "STRAND_PLANNER_PLUGIN",
	MagicCookieValue: "strand-planner-v1",
}

// PluginMap returns the plugin set for impl. impl is nil on the host side.
func PluginMap(impl ports.Generator) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{Name: &GeneratorPlugin{Impl: impl}}
}

// GeneratorPlugin adapts a ports.Generator to the net/rpc protocol.
type GeneratorPlugin struct {
	Impl ports.Generator
}

// Server implements plugin.Plugin.
func (p *GeneratorPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	if p.Impl == nil {
		return nil, errors.New("planner plugin has no generator")
	}
	return &rpcServer{impl: p.Impl}, nil
}

// Client implements plugin.Plugin.
func (p *GeneratorPlugin) Client(_ *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &rpcClient{client: c}, nil
}

// GenerateArgs carries a request across the process boundary. Deadline is
// zero when the caller set none.
type GenerateArgs struct {
	Request  ports.Request
	Deadline time.Time
}

// GenerateReply carries either a draft or a classified failure.
type GenerateReply struct {
	Draft     *domain.Draft
	Problems  []domain.FieldError
	Transient bool
	Timeout   bool
	Error     string
}

type rpcServer struct {
	impl ports.Generator
}

func (s *rpcServer) Name(_ struct{}, reply *string) error {
	*reply = s.impl.Name()
	return nil
}

func (s *rpcServer) Generate(args GenerateArgs, reply *GenerateReply) error {
	ctx := context.Background()
	if !args.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, args.Deadline)
		defer cancel()
	}

	draft, err := s.impl.Generate(ctx, args.Request)
	if err == nil {
		reply.Draft = draft
		return nil
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		reply.Problems = verr.Problems
	case errors.Is(err, context.DeadlineExceeded):
		reply.Timeout = true
	case errors.Is(err, ports.ErrTransient):
		reply.Transient = true
	}
	reply.Error = err.Error()
	return nil
}

type rpcClient struct {
	client *rpc.Client
}

func (c *rpcClient) Name() string {
	var name string
	if err := c.client.Call("Plugin.Name", struct{}{}, &name); err != nil {
		return "plugin"
	}
	return name
}

func (c *rpcClient) Generate(ctx context.Context, req ports.Request) (*domain.Draft, error) {
	args := GenerateArgs{Request: req}
	if deadline, ok := ctx.Deadline(); ok {
		args.Deadline = deadline
	}

	var reply GenerateReply
	call := c.client.Go("Plugin.Generate", args, &reply, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-call.Done:
	}
	if call.Error != nil {
		return nil, fmt.Errorf("%w: planner rpc: %v", ports.ErrTransient, call.Error)
	}

	switch {
	case reply.Draft != nil:
		return reply.Draft, nil
	case len(reply.Problems) > 0:
		return nil, &domain.ValidationError{Problems: reply.Problems}
	case reply.Timeout:
		return nil, fmt.Errorf("planner: %s: %w", reply.Error, context.DeadlineExceeded)
	case reply.Transient:
		return nil, fmt.Errorf("%w: planner: %s", ports.ErrTransient, reply.Error)
	case reply.Error != "":
		return nil, fmt.Errorf("planner: %s", reply.Error)
	}
	return nil, domain.ErrEmptyResponse
}
