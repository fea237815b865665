package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/opsdash/history"
	"github.com/jonwraymond/opsdash/resilience"
)

func TestListFiles(t *testing.T) {
	f := newFixture(t)
	f.write(t, "a.csv", "x")
	f.write(t, "logs/b.log", "yy")

	body := decode(t, f.do(t, http.MethodGet, "/api/files/list", nil))
	if body["count"] != 1.0 {
		t.Errorf("top-level count = %v", body["count"])
	}
	body = decode(t, f.do(t, http.MethodGet, "/api/files/list?recursive=true", nil))
	if body["count"] != 2.0 {
		t.Errorf("recursive count = %v", body["count"])
	}
	first := body["files"].([]any)[0].(map[string]any)
	if first["name"] != "a.csv" || first["type"] != ".csv" || first["size_bytes"] != 1.0 {
		t.Errorf("first entry = %v", first)
	}
	if e := f.hist.Query(1)[0]; e.Task != "list_files" || e.Details["count"].Any() != int64(2) {
		t.Errorf("history = %+v", e)
	}
}

func TestListFiles_Errors(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(t, http.MethodGet, "/api/files/list?directory=missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing dir = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/files/list?directory=../..", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("escape = %d", rec.Code)
	}
	st := f.hist.Stats()
	if st.Failed != 2 || st.Succeeded != 0 {
		t.Errorf("stats = %+v, want 2 failed", st)
	}
}

func TestDirectorySize(t *testing.T) {
	f := newFixture(t)
	f.write(t, "d/a", "12345")
	f.write(t, "d/b", "12345")

	body := decode(t, f.do(t, http.MethodGet, "/api/files/size?directory=d", nil))
	if body["total_bytes"] != 10.0 || body["file_count"] != 2.0 {
		t.Errorf("size = %v", body)
	}
}

func TestCleanup(t *testing.T) {
	f := newFixture(t)
	f.write(t, "tmp/old.log", "x")
	f.write(t, "tmp/new.log", "x")
	old := time.Now().Add(-45 * 24 * time.Hour)
	if err := os.Chtimes(filepath.Join(f.files.Root, "tmp", "old.log"), old, old); err != nil {
		t.Fatal(err)
	}

	rec := f.do(t, http.MethodPost, "/api/files/cleanup", strings.NewReader(`{"directory":"tmp","extensions":[".log"]}`))
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["deleted_count"] != 1.0 {
		t.Errorf("cleanup = %d %v", rec.Code, body)
	}
	if e := f.hist.Query(1)[0]; e.Task != "cleanup_files" || e.Details["deleted"].Any() != int64(1) {
		t.Errorf("history = %+v", e)
	}
}

func TestCleanup_Validation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/files/cleanup", strings.NewReader(`{"days":-1,"extensions":["a/b"]}`))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	errs := decode(t, rec)["errors"].(map[string]any)
	if _, ok := errs["days"]; !ok {
		t.Errorf("errors = %v, want days", errs)
	}
}

func TestOrganize(t *testing.T) {
	f := newFixture(t)
	f.write(t, "inbox/a.csv", "x")
	f.write(t, "inbox/README", "x")

	rec := f.do(t, http.MethodPost, "/api/files/organize", strings.NewReader(`{"directory":"inbox"}`))
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["message"] != "Files organized" || body["moved"] != 2.0 {
		t.Errorf("organize = %d %v", rec.Code, body)
	}
	if _, err := os.Stat(filepath.Join(f.files.Root, "inbox", "no_extension", "README")); err != nil {
		t.Errorf("README not moved: %v", err)
	}
}

func TestBackup(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/a.txt", "abc")

	rec := f.do(t, http.MethodPost, "/api/files/backup", strings.NewReader(`{"source":"src","destination":"backups/src"}`))
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["message"] != "Backup completed" || body["files"] != 1.0 {
		t.Errorf("backup = %d %v", rec.Code, body)
	}

	rec = f.do(t, http.MethodPost, "/api/files/backup", strings.NewReader(`{"source":"src"}`))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing destination = %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/files/backup", strings.NewReader(`{"source":"nope","destination":"b"}`))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing source = %d", rec.Code)
	}
	if e := f.hist.Query(1)[0]; e.Task != "backup_files" || e.Status != history.StatusFailed {
		t.Errorf("history = %+v", e)
	}
}

func TestHousekeeping_RateLimited(t *testing.T) {
	f := newFixture(t, func(_ *Options, d *Deps) {
		d.Housekeeping = resilience.NewExecutor(resilience.WithRateLimiter(
			resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 0.001, Burst: 1}),
		))
	})
	f.write(t, "inbox/a.csv", "x")

	if rec := f.do(t, http.MethodPost, "/api/files/organize", strings.NewReader(`{"directory":"inbox"}`)); rec.Code != http.StatusOK {
		t.Fatalf("first = %d", rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/api/files/organize", strings.NewReader(`{"directory":"inbox"}`))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second = %d, want 429", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/files/list?directory=inbox", nil); rec.Code != http.StatusOK {
		t.Errorf("read-only route limited: %d", rec.Code)
	}
	if f.hist.Len() != 2 {
		t.Errorf("history Len() = %d, want 2", f.hist.Len())
	}
}
