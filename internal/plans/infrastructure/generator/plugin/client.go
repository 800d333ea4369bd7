package plugin

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/hashicorp/go-plugin"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/security"
)

// Client owns a running planner process.
type Client struct {
	ports.Generator
	client *plugin.Client
	logger *slog.Logger
}

// Launch starts the planner binary at path and dispenses its generator.
func Launch(path string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	binary, err := security.ValidateExecutable(path)
	if err != nil {
		return nil, fmt.Errorf("planner binary: %w", err)
	}

	logger.Info("starting planner plugin", "binary", binary)

	// #nosec G204 -- binary is validated by ValidateExecutable
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  Handshake,
		Plugins:          PluginMap(nil),
		Cmd:              exec.Command(binary),
		Logger:           newHclogAdapter(logger, "planner"),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("connect to planner: %w", err)
	}
	raw, err := rpcClient.Dispense(Name)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense planner: %w", err)
	}
	gen, ok := raw.(ports.Generator)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("planner plugin returned %T", raw)
	}
	return &Client{Generator: gen, client: client, logger: logger}, nil
}

// Close stops the planner process.
func (c *Client) Close() error {
	c.client.Kill()
	c.logger.Info("planner plugin stopped")
	return nil
}

// Serve runs gen as a planner plugin. It blocks until the host disconnects.
func Serve(gen ports.Generator, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         PluginMap(gen),
		Logger:          newHclogAdapter(logger, "strand-planner"),
	})
}
