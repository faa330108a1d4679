package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-remote/core"
)

var (
	_ gocmd.Commander[ExecuteMessage]         = (*ExecuteCommand)(nil)
	_ gocmd.Commander[DispatchMessage]        = (*DispatchCommand)(nil)
	_ gocmd.Commander[ExecuteResourceMessage] = (*ExecuteResourceCommand)(nil)
	_ core.Object                             = (*Resource)(nil)
	_ core.Namer                              = (*Resource)(nil)
	_ Executor                                = (*core.Dispatcher)(nil)
	_ RequestDispatcher                       = (*core.Dispatcher)(nil)
)
