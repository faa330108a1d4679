package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-remote/core"
)

var (
	_ gocmd.Querier[PreviewRequestMessage, core.Request] = (*PreviewRequestQuery)(nil)
	_ gocmd.Querier[ListVerbsMessage, []VerbDescriptor]  = (*ListVerbsQuery)(nil)
	_ RequestPreviewer                                   = (*core.Dispatcher)(nil)
	_ VerbTable                                          = (*core.Configuration)(nil)
)
