package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracefold/pkg/observability"
)

func TestLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	registerLogHooks()

	var buf bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&buf, log.DebugLevel))

	observability.Session().OnLoad(ctx, "a.json", 3, time.Millisecond, nil)
	observability.Session().OnLoad(ctx, "b.json", 0, 0, errors.New("boom"))
	observability.Session().OnFold(ctx, 1, "4", "collapse", 2)
	observability.Session().OnReconcile(ctx, 1, 0, 1, time.Millisecond)
	observability.Render().OnRenderStart(ctx, "svg", 5)
	observability.Render().OnRenderComplete(ctx, "svg", time.Millisecond, nil)
	observability.Cache().OnCacheHit(ctx, artifactKeyType)
	observability.Cache().OnCacheMiss(ctx, artifactKeyType)
	observability.Cache().OnCacheSet(ctx, artifactKeyType, 42)

	out := buf.String()
	for _, want := range []string{
		"load path=a.json traces=3",
		"load failed path=b.json err=boom",
		"fold trace=1 node=4 op=collapse changed=2",
		"reconcile trace=1 removed=0 added=1",
		"render start format=svg nodes=5",
		"render done format=svg",
		"cache hit",
		"cache miss",
		"cache set",
		"bytes=42",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooks_QuietAtInfo(t *testing.T) {
	t.Cleanup(observability.Reset)
	registerLogHooks()

	var buf bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&buf, log.InfoLevel))
	observability.Session().OnFold(ctx, 1, "4", "collapse", 2)
	if buf.Len() != 0 {
		t.Errorf("debug hooks should be silent at info level: %q", buf.String())
	}
}
