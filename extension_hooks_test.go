package remote

import (
	"context"
	"net/http"
	"testing"

	"github.com/goliatone/go-remote/core"
	remotequery "github.com/goliatone/go-remote/query"
)

func TestExtensionHooks_RegisterVerbAndTransportPacks(t *testing.T) {
	hooks := NewExtensionHooks()
	pack := VerbPack{
		Name: "archive-pack",
		Verbs: map[core.Verb]core.VerbSpec{
			"ARCHIVE": {Scope: core.VerbScopeResource},
		},
	}
	if err := hooks.RegisterVerbPack(pack); err != nil {
		t.Fatalf("register verb pack: %v", err)
	}
	if err := hooks.RegisterVerbPack(pack); err == nil {
		t.Fatalf("expected duplicate verb pack registration error")
	}
	if err := hooks.RegisterVerbPack(VerbPack{Name: "empty"}); err == nil {
		t.Fatalf("expected empty verb pack to fail")
	}

	transport := &recordingTransport{}
	if err := hooks.RegisterTransportPack(TransportPack{
		Name: "recording-pack",
		Kind: " Recording ",
		Factory: func(map[string]any) (core.TransportAdapter, error) {
			return transport, nil
		},
	}); err != nil {
		t.Fatalf("register transport pack: %v", err)
	}
	if err := hooks.RegisterTransportPack(TransportPack{Name: "broken", Kind: "broken"}); err == nil {
		t.Fatalf("expected transport pack without factory to fail")
	}

	facade, err := Setup(Config{BaseURL: "http://api.test", Transport: TransportConfig{Kind: "recording"}}, hooks)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := facade.Dispatcher().Execute(context.Background(), &Widget{id: "7", name: "a"}, http.MethodPost, "ARCHIVE"); err != nil {
		t.Fatalf("execute custom verb: %v", err)
	}
	if len(transport.urls) != 1 || transport.urls[0] != "http://api.test/widgets/7" {
		t.Fatalf("expected custom verb through pack transport, got %v", transport.urls)
	}

	verbs, err := facade.Queries().ListVerbs.Query(context.Background(), remotequery.ListVerbsMessage{})
	if err != nil {
		t.Fatalf("list verbs: %v", err)
	}
	if len(verbs) != len(core.DefaultVerbs())+1 {
		t.Fatalf("expected pack verb in the verb table, got %d verbs", len(verbs))
	}

	if err := hooks.ApplyVerbPacks(facade.Dispatcher().Configuration()); err == nil {
		t.Fatalf("expected sealed configuration to reject pack verbs")
	}
}

func TestExtensionHooks_CommandQueryBundles(t *testing.T) {
	hooks := NewExtensionHooks()
	if err := hooks.RegisterCommandQueryBundle("widgets", func(facade *Facade) (any, error) {
		return map[string]any{
			"execute": facade.Commands().Execute,
			"preview": facade.Queries().PreviewRequest,
		}, nil
	}); err != nil {
		t.Fatalf("register bundle: %v", err)
	}
	if err := hooks.RegisterCommandQueryBundle("widgets", func(*Facade) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate bundle registration error")
	}

	facade, err := Setup(Config{BaseURL: "http://api.test"}, hooks, WithTransport(&recordingTransport{}))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	bundles, err := hooks.BuildCommandQueryBundles(facade)
	if err != nil {
		t.Fatalf("build bundles: %v", err)
	}
	if _, ok := bundles["widgets"]; !ok || len(bundles) != 1 {
		t.Fatalf("expected widgets bundle, got %#v", bundles)
	}
	if names := hooks.BundleNames(); len(names) != 1 || names[0] != "widgets" {
		t.Fatalf("unexpected bundle names %v", names)
	}

	var nilHooks *ExtensionHooks
	if err := nilHooks.ApplyVerbPacks(core.NewConfiguration()); err != nil {
		t.Fatalf("expected nil hooks to be a no-op, got %v", err)
	}
	if _, err := Setup(Config{BaseURL: "http://api.test"}, nil, WithTransport(&recordingTransport{})); err != nil {
		t.Fatalf("expected setup without hooks, got %v", err)
	}
}
