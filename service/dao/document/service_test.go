package document

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/clasp/policy"
	"github.com/viant/clasp/rule/denylist"
	"github.com/viant/clasp/rule/limiter"
	"github.com/viant/clasp/token"
)

const testDocument = `
name: regulated-eur
actions:
  transfer: ["denylist", "limiter(3000)"]
  spend: ["limiter(500)"]
  to_coin: []
configs:
  denylist:
    addresses: ["0xbad"]
`

func newService(t *testing.T, baseURL string) *Service {
	return New(
		WithBaseURL(baseURL),
		WithBinders(denylist.New(), limiter.New()),
	)
}

func upload(t *testing.T, baseURL, name, content string) {
	fs := afs.New()
	err := fs.Upload(context.Background(), url.Join(baseURL, name), file.DefaultFileOsMode, strings.NewReader(content))
	assert.NoError(t, err)
}

func TestLoad(t *testing.T) {
	baseURL := "mem://localhost/clasp/load"
	upload(t, baseURL, "regulated-eur.yaml", testDocument)
	service := newService(t, baseURL)

	// Extension defaults to .yaml, relative names resolve against baseURL.
	doc, err := service.Load(context.Background(), "regulated-eur")
	assert.NoError(t, err)
	assert.Equal(t, "regulated-eur", doc.Name)
	assert.Len(t, doc.Actions, 3)
	assert.Len(t, doc.Actions["transfer"], 2)
	assert.Equal(t, "limiter", doc.Actions["transfer"][1].Name)
	assert.Equal(t, "3000", doc.Actions["transfer"][1].Arg)
	assert.Empty(t, doc.Actions["to_coin"])

	// Second load hits the cache.
	again, err := service.Load(context.Background(), "regulated-eur")
	assert.NoError(t, err)
	assert.Same(t, doc, again)

	_, err = service.Load(context.Background(), "missing")
	assert.Error(t, err)
}

func TestLoadExpandsEnv(t *testing.T) {
	assert.NoError(t, os.Setenv("CLASP_TEST_BLOCKED", "0xblocked"))
	defer os.Unsetenv("CLASP_TEST_BLOCKED")

	baseURL := "mem://localhost/clasp/env"
	upload(t, baseURL, "env.yaml", `
name: env
actions:
  transfer: ["denylist"]
configs:
  denylist:
    addresses: ["${env.CLASP_TEST_BLOCKED}"]
`)
	service := newService(t, baseURL)
	doc, err := service.Load(context.Background(), "env")
	assert.NoError(t, err)
	configs, ok := doc.Configs["denylist"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, []interface{}{"0xblocked"}, configs["addresses"])
}

func TestApply(t *testing.T) {
	baseURL := "mem://localhost/clasp/apply"
	upload(t, baseURL, "regulated-eur.yaml", testDocument)
	service := newService(t, baseURL)

	doc, err := service.Load(context.Background(), "regulated-eur")
	assert.NoError(t, err)

	p, cap, err := policy.New(token.NewTreasury())
	assert.NoError(t, err)
	assert.NoError(t, service.Apply(doc, p, cap))

	assert.Equal(t, []string{"spend", "to_coin", "transfer"}, p.Actions())
	transferRules, ok := p.Rules("transfer")
	assert.True(t, ok)
	assert.Len(t, transferRules, 2)
	toCoinRules, ok := p.Rules("to_coin")
	assert.True(t, ok)
	assert.Empty(t, toCoinRules)

	// The denylist config from the configs section is live.
	request := token.NewRequest("transfer", 100, "0xbad", "0xbob")
	assert.ErrorIs(t, service.Verify(p, request), denylist.ErrDenied)

	// The per-action limiter arguments are live.
	request = token.NewRequest("transfer", 3001, "0xalice", "0xbob")
	assert.ErrorIs(t, service.Verify(p, request), limiter.ErrLimitExceeded)
	request = token.NewRequest("spend", 501, "0xalice", "")
	assert.ErrorIs(t, service.Verify(p, request), limiter.ErrLimitExceeded)

	// A conforming request collects every required approval and confirms.
	request = token.NewRequest("transfer", 2000, "0xalice", "0xbob")
	assert.NoError(t, service.Verify(p, request))
	_, err = p.ConfirmRequest(request)
	assert.NoError(t, err)
}

func TestApplyConflictingConfig(t *testing.T) {
	service := newService(t, "")
	doc, err := service.DecodeYAML([]byte(`
name: conflict
actions:
  transfer: ["limiter(500)"]
configs:
  limiter:
    limits:
      transfer: 100
`))
	assert.NoError(t, err)

	p, cap, err := policy.New(token.NewTreasury())
	assert.NoError(t, err)
	// A rule configured through both a reference argument and the configs
	// section is ambiguous and rejected.
	err = service.Apply(doc, p, cap)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "configs section")
}

func TestApplyUnknownRule(t *testing.T) {
	baseURL := "mem://localhost/clasp/unknown"
	upload(t, baseURL, "doc.yaml", `
name: doc
actions:
  transfer: ["velocity"]
`)
	service := newService(t, baseURL)
	doc, err := service.Load(context.Background(), "doc")
	assert.NoError(t, err)

	p, cap, err := policy.New(token.NewTreasury())
	assert.NoError(t, err)
	err = service.Apply(doc, p, cap)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "velocity")
}

func TestUpsertAndRefresh(t *testing.T) {
	service := newService(t, "")
	doc, err := service.DecodeYAML([]byte(testDocument))
	assert.NoError(t, err)

	service.Upsert("mem://localhost/clasp/upsert/doc.yaml", doc)
	cached, err := service.Load(context.Background(), "mem://localhost/clasp/upsert/doc.yaml")
	assert.NoError(t, err)
	assert.Same(t, doc, cached)

	// Refresh drops the cache entry; the location has no backing file.
	service.Refresh("mem://localhost/clasp/upsert/doc.yaml")
	_, err = service.Load(context.Background(), "mem://localhost/clasp/upsert/doc.yaml")
	assert.Error(t, err)
}
