package remote

import (
	"fmt"

	remotecommand "github.com/goliatone/go-remote/command"
	"github.com/goliatone/go-remote/core"
	remotequery "github.com/goliatone/go-remote/query"
)

type Commands struct {
	Execute         *remotecommand.ExecuteCommand
	Dispatch        *remotecommand.DispatchCommand
	ExecuteResource *remotecommand.ExecuteResourceCommand
}

type Queries struct {
	PreviewRequest *remotequery.PreviewRequestQuery
	ListVerbs      *remotequery.ListVerbsQuery
}

// Facade exposes the command and query handlers bound to one dispatcher.
type Facade struct {
	dispatcher *core.Dispatcher
	commands   Commands
	queries    Queries
}

func NewFacade(dispatcher *core.Dispatcher) (*Facade, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("remote: dispatcher is required")
	}
	return &Facade{
		dispatcher: dispatcher,
		commands: Commands{
			Execute:         remotecommand.NewExecuteCommand(dispatcher),
			Dispatch:        remotecommand.NewDispatchCommand(dispatcher),
			ExecuteResource: remotecommand.NewExecuteResourceCommand(dispatcher),
		},
		queries: Queries{
			PreviewRequest: remotequery.NewPreviewRequestQuery(dispatcher),
			ListVerbs:      remotequery.NewListVerbsQuery(dispatcher.Configuration()),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Dispatcher() *core.Dispatcher {
	if f == nil {
		return nil
	}
	return f.dispatcher
}
