package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
)

type fakeRecorder struct {
	mu   sync.Mutex
	got  []types.Invocation
	fail error
}

func (f *fakeRecorder) RecordInvocation(_ context.Context, inv types.Invocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.got = append(f.got, inv)
	return nil
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRecord_PersistsNormalized(t *testing.T) {
	var buf bytes.Buffer
	rec := &fakeRecorder{}
	l := NewLogger(rec, newTestLogger(&buf))

	err := l.Record(context.Background(), types.Invocation{ID: "inv-1", Tool: " list_deals ", Client: "desktop", DurationMS: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rec.got))
	}
	if rec.got[0].Tool != "list_deals" || rec.got[0].Status != types.StatusOK {
		t.Errorf("unexpected record %+v", rec.got[0])
	}
	if rec.got[0].Client != "desktop" {
		t.Errorf("expected client to be kept, got %q", rec.got[0].Client)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"tool call completed"`)) {
		t.Errorf("expected completion log, got %s", buf.String())
	}
}

func TestRecord_FailedInvocationLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(nil, newTestLogger(&buf))

	err := l.Record(context.Background(), types.Invocation{
		ID: "inv-2", Tool: "get_deal", Error: "404 Client Error", StatusCode: 404, ErrorKind: types.KindTransport,
	})
	if err != nil {
		t.Fatalf("nil store should not fail: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"level":"WARN"`, `"status_code":404`, `"error_kind":"TRANSPORT_ERROR"`} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestRecord_StoreErrorIsReturned(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&fakeRecorder{fail: errors.New("db down")}, newTestLogger(&buf))

	if err := l.Record(context.Background(), types.Invocation{ID: "inv-3", Tool: "list_users"}); err == nil {
		t.Fatal("expected store error")
	}
	if !bytes.Contains(buf.Bytes(), []byte("audit record failed")) {
		t.Errorf("expected error log, got %s", buf.String())
	}
}

func TestStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("AUDIT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AUDIT_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	inv := types.Invocation{ID: "it-" + t.Name(), Tool: "audit_roundtrip", Client: "desktop", Error: "boom", StatusCode: 502}
	if err := s.RecordInvocation(ctx, inv); err != nil {
		t.Fatalf("record: %v", err)
	}

	var client, status string
	var code int
	err = s.pool.QueryRow(ctx,
		`SELECT client, status, status_code FROM tool_invocations WHERE invocation_id = $1`, inv.ID,
	).Scan(&client, &status, &code)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if client != "desktop" || status != string(types.StatusError) || code != 502 {
		t.Errorf("unexpected row client=%q status=%q code=%d", client, status, code)
	}
}
