package remote

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-remote/core"
	"github.com/goliatone/go-remote/transport"
)

// VerbPack is a named set of verbs added to a configuration before it is
// sealed.
type VerbPack struct {
	Name  string
	Verbs map[core.Verb]core.VerbSpec
}

// TransportPack registers an adapter factory for a transport kind.
type TransportPack struct {
	Name    string
	Kind    string
	Factory transport.AdapterFactory
}

type CommandQueryBundleFactory func(facade *Facade) (any, error)

type ExtensionHooks struct {
	mu sync.RWMutex

	verbPacks      map[string]VerbPack
	transportPacks map[string]TransportPack
	bundles        map[string]CommandQueryBundleFactory
}

func NewExtensionHooks() *ExtensionHooks {
	return &ExtensionHooks{
		verbPacks:      map[string]VerbPack{},
		transportPacks: map[string]TransportPack{},
		bundles:        map[string]CommandQueryBundleFactory{},
	}
}

func (h *ExtensionHooks) RegisterVerbPack(pack VerbPack) error {
	if h == nil {
		return fmt.Errorf("remote: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("remote: verb pack name is required")
	}
	if len(pack.Verbs) == 0 {
		return fmt.Errorf("remote: verb pack %q has no verbs", name)
	}

	normalized := VerbPack{Name: name, Verbs: make(map[core.Verb]core.VerbSpec, len(pack.Verbs))}
	for verb, spec := range pack.Verbs {
		normalized.Verbs[verb] = spec
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.verbPacks[name]; exists {
		return fmt.Errorf("remote: verb pack %q already registered", name)
	}
	h.verbPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) RegisterTransportPack(pack TransportPack) error {
	if h == nil {
		return fmt.Errorf("remote: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	kind := strings.TrimSpace(strings.ToLower(pack.Kind))
	if name == "" {
		return fmt.Errorf("remote: transport pack name is required")
	}
	if kind == "" {
		return fmt.Errorf("remote: transport pack %q kind is required", name)
	}
	if pack.Factory == nil {
		return fmt.Errorf("remote: transport pack %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.transportPacks[name]; exists {
		return fmt.Errorf("remote: transport pack %q already registered", name)
	}
	h.transportPacks[name] = TransportPack{Name: name, Kind: kind, Factory: pack.Factory}
	return nil
}

func (h *ExtensionHooks) RegisterCommandQueryBundle(
	name string,
	factory CommandQueryBundleFactory,
) error {
	if h == nil {
		return fmt.Errorf("remote: extension hooks are nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("remote: command/query bundle name is required")
	}
	if factory == nil {
		return fmt.Errorf("remote: command/query bundle %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.bundles[name]; exists {
		return fmt.Errorf("remote: command/query bundle %q already registered", name)
	}
	h.bundles[name] = factory
	return nil
}

// ApplyVerbPacks adds every pack verb to configuration, packs and verbs in
// name order. Fails once configuration is sealed.
func (h *ExtensionHooks) ApplyVerbPacks(configuration *core.Configuration) error {
	if h == nil {
		return nil
	}
	if configuration == nil {
		return fmt.Errorf("remote: configuration is required")
	}
	for _, pack := range h.VerbPacks() {
		verbs := make([]core.Verb, 0, len(pack.Verbs))
		for verb := range pack.Verbs {
			verbs = append(verbs, verb)
		}
		sort.Slice(verbs, func(i, j int) bool { return verbs[i] < verbs[j] })
		for _, verb := range verbs {
			if err := configuration.AddVerb(verb, pack.Verbs[verb]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *ExtensionHooks) ApplyTransportPacks(registry *transport.Registry) error {
	if h == nil {
		return nil
	}
	if registry == nil {
		return fmt.Errorf("remote: transport registry is required")
	}
	for _, pack := range h.TransportPacks() {
		if err := registry.RegisterFactory(pack.Kind, pack.Factory); err != nil {
			return err
		}
	}
	return nil
}

func (h *ExtensionHooks) BuildCommandQueryBundles(facade *Facade) (map[string]any, error) {
	if h == nil {
		return map[string]any{}, nil
	}
	if facade == nil {
		return nil, fmt.Errorf("remote: facade is required")
	}

	h.mu.RLock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	factories := make(map[string]CommandQueryBundleFactory, len(h.bundles))
	for name, factory := range h.bundles {
		factories[name] = factory
	}
	h.mu.RUnlock()

	result := make(map[string]any, len(names))
	for _, name := range names {
		bundle, err := factories[name](facade)
		if err != nil {
			return nil, err
		}
		result[name] = bundle
	}
	return result, nil
}

func (h *ExtensionHooks) VerbPacks() []VerbPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.verbPacks))
	for name := range h.verbPacks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]VerbPack, 0, len(names))
	for _, name := range names {
		pack := h.verbPacks[name]
		verbs := make(map[core.Verb]core.VerbSpec, len(pack.Verbs))
		for verb, spec := range pack.Verbs {
			verbs[verb] = spec
		}
		out = append(out, VerbPack{Name: pack.Name, Verbs: verbs})
	}
	return out
}

func (h *ExtensionHooks) TransportPacks() []TransportPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.transportPacks))
	for name := range h.transportPacks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]TransportPack, 0, len(names))
	for _, name := range names {
		out = append(out, h.transportPacks[name])
	}
	return out
}

func (h *ExtensionHooks) BundleNames() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
