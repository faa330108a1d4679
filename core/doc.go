// Package core contains the request pipeline contracts and orchestration logic:
// verbs, the configuration hook set, the request builder and the dispatcher
// that emits start/success/error notifications. Transport and observer
// adapters depend on this package; core must not depend on them.
package core
