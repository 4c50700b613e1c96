package document

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/clasp/policy"
	"github.com/viant/clasp/rule"
	"github.com/viant/clasp/service/dao/document/ruleref"
	"github.com/viant/clasp/token"
	"gopkg.in/yaml.v3"
)

// Service loads policy documents from any afs-supported scheme, caches them
// and applies them to live policies through the admin API.
type Service struct {
	fs       afs.Service
	baseURL  string
	binders  map[string]Binder
	registry *rule.Registry
	cache    map[string]*Document
	mux      sync.RWMutex
}

// New creates a document service.
func New(options ...Option) *Service {
	ret := &Service{
		fs:       afs.New(),
		binders:  make(map[string]Binder),
		registry: rule.NewRegistry(),
		cache:    make(map[string]*Document),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Register makes a rule binder resolvable from documents and records its
// type in the rule registry.
func (s *Service) Register(binder Binder) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.binders[binder.Name()] = binder
	s.registry.Register(binder)
}

// Registry returns the rule registry populated by Register.
func (s *Service) Registry() *rule.Registry {
	return s.registry
}

// normalize applies the default extension and resolves relative locations
// against the base URL, so Load, Refresh and Upsert agree on cache keys.
func (s *Service) normalize(URL string) string {
	if filepath.Ext(URL) == "" {
		URL += ".yaml"
	}
	if s.baseURL != "" && url.Scheme(URL, "") == "" && !filepath.IsAbs(URL) {
		URL = url.Join(s.baseURL, URL)
	}
	return URL
}

// Load fetches and parses the document at URL, caching the result. A
// relative location resolves against the configured base URL; a missing
// extension defaults to .yaml.
func (s *Service) Load(ctx context.Context, URL string) (*Document, error) {
	URL = s.normalize(URL)
	s.mux.RLock()
	cached, ok := s.cache[URL]
	s.mux.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy document from %s: %w", URL, err)
	}
	doc, err := s.DecodeYAML([]byte(expandEnvExpr(string(data))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy document from %s: %w", URL, err)
	}
	doc.Source = &Source{URL: URL}
	if doc.Name == "" {
		base := filepath.Base(URL)
		doc.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	s.mux.Lock()
	s.cache[URL] = doc
	s.mux.Unlock()
	return doc, nil
}

// Refresh discards any cached copy of the document at URL; the next Load
// reloads it from storage.
func (s *Service) Refresh(URL string) {
	URL = s.normalize(URL)
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.cache, URL)
}

// Upsert stores the document in the cache under the given location, making
// it immediately available without a storage round-trip.
func (s *Service) Upsert(URL string, doc *Document) {
	URL = s.normalize(URL)
	s.mux.Lock()
	defer s.mux.Unlock()
	s.cache[URL] = doc
}

// DecodeYAML parses a policy document from YAML bytes.
func (s *Service) DecodeYAML(encoded []byte) (*Document, error) {
	transfer := struct {
		Name    string                 `yaml:"name"`
		Actions map[string][]string    `yaml:"actions"`
		Configs map[string]interface{} `yaml:"configs"`
	}{}
	if err := yaml.Unmarshal(encoded, &transfer); err != nil {
		return nil, err
	}
	doc := &Document{
		Name:    transfer.Name,
		Actions: make(map[string][]*ruleref.Ref, len(transfer.Actions)),
		Configs: transfer.Configs,
	}
	for action, refs := range transfer.Actions {
		parsed := make([]*ruleref.Ref, 0, len(refs))
		for _, text := range refs {
			ref, err := ruleref.Parse([]byte(text))
			if err != nil {
				return nil, fmt.Errorf("invalid rule reference %q for action %q: %w", text, action, err)
			}
			parsed = append(parsed, ref)
		}
		doc.Actions[action] = parsed
	}
	return doc, nil
}

// Apply drives the policy admin API from the document: allows every listed
// action, requires every referenced rule and installs rule configs built
// from reference arguments and the configs section. Actions are processed
// in sorted order so repeated applications are deterministic.
func (s *Service) Apply(doc *Document, p *policy.Policy, cap *policy.AdminCap) error {
	s.mux.RLock()
	defer s.mux.RUnlock()

	actions := make([]string, 0, len(doc.Actions))
	for action := range doc.Actions {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	configs := make(map[string]interface{})
	for _, action := range actions {
		if err := p.Allow(cap, action); err != nil {
			return err
		}
		for _, ref := range doc.Actions[action] {
			binder, ok := s.binders[ref.Name]
			if !ok {
				return fmt.Errorf("document %q references unknown rule %q", doc.Name, ref.Name)
			}
			if err := p.AddRuleForAction(cap, action, binder.Key()); err != nil {
				return err
			}
			bound, err := binder.BindConfig(configs[ref.Name], action, ref.Arg)
			if err != nil {
				return err
			}
			configs[ref.Name] = bound
		}
	}

	names := make([]string, 0, len(doc.Configs))
	for name := range doc.Configs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		binder, ok := s.binders[name]
		if !ok {
			return fmt.Errorf("document %q configures unknown rule %q", doc.Name, name)
		}
		decoder, ok := binder.(ConfigDecoder)
		if !ok {
			return fmt.Errorf("rule %q does not accept a configs section", name)
		}
		if configs[name] != nil {
			return fmt.Errorf("document %q configures rule %q both through reference arguments and a configs section", doc.Name, name)
		}
		decoded, err := decoder.DecodeConfig(doc.Configs[name])
		if err != nil {
			return err
		}
		configs[name] = decoded
	}

	for _, name := range sortedKeys(configs) {
		if configs[name] == nil {
			continue
		}
		if err := s.binders[name].Install(p, cap, configs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Verify runs every rule the policy requires for the request's action,
// letting each stamp its approval. It fails fast on the first rule that
// rejects the request or that the service does not know.
func (s *Service) Verify(p *policy.Policy, request *token.ActionRequest) error {
	keys, ok := p.Rules(request.Action())
	if !ok {
		return fmt.Errorf("action %q is not allowed by policy %s", request.Action(), p.ID())
	}
	s.mux.RLock()
	defer s.mux.RUnlock()
	for _, key := range keys {
		var verifier Verifier
		for _, binder := range s.binders {
			if binder.Key() != key {
				continue
			}
			verifier, _ = binder.(Verifier)
			break
		}
		if verifier == nil {
			return fmt.Errorf("no verifier registered for rule %s", key)
		}
		if err := verifier.Verify(p, request); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
