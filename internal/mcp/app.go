package mcp

import (
	"github.com/felixgeelhaar/strand/adapter/cli"
	"github.com/felixgeelhaar/strand/internal/app"
	"github.com/google/uuid"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := cli.NewApp(container)
	cliApp.SetCurrentUserID(currentUser)
	return cliApp
}
