package observability_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/ptvoice/internal/observability"
	"github.com/danmuck/ptvoice/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)

	observability.RegisterMetrics()
	observability.RegisterMetrics()

	observability.RecordCodec(observability.OpDecode, "ok", 39, 1, 12*time.Microsecond)
	observability.RecordCodec(observability.OpEncode, "invalid", 0, 0, 3*time.Microsecond)
	observability.RecordLintWarning("no_units")

	families, err := observability.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"ptvoice_codec_operations_total",
		"ptvoice_codec_operation_duration_seconds",
		"ptvoice_codec_bytes_total",
		"ptvoice_voice_units",
		"ptvoice_lint_warnings_total",
	} {
		if !names[want] {
			t.Fatalf("missing metric family %s in %v", want, names)
		}
	}

	log.Debug().Msg("observability/metrics: registration idempotent and recording paths executed")
}

func TestWriteTextfile(t *testing.T) {
	testlog.Start(t)

	observability.RecordCodec(observability.OpDecode, "ok", 16, 0, time.Microsecond)
	path := filepath.Join(t.TempDir(), "ptvoice.prom")
	if err := observability.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(b), `ptvoice_codec_operations_total{op="decode",result="ok"}`) {
		t.Fatalf("textfile missing decode counter:\n%s", b)
	}
}

func TestWriteTextfileEmptyPathIsNoop(t *testing.T) {
	if err := observability.WriteTextfile(""); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
