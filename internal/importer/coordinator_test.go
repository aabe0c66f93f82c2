package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsalvin/oracle-project-backend/internal/model"
	"github.com/dsalvin/oracle-project-backend/internal/parser"
	"github.com/dsalvin/oracle-project-backend/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "oracle.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func setupUpload(t *testing.T, st *store.Store, id string) *model.Upload {
	t.Helper()
	userID, err := st.CreateUser(&model.User{Email: id + "@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	upload := &model.Upload{
		ID:       id,
		UserID:   userID,
		Filename: "sales.csv",
		FilePath: "/tmp/sales.csv",
		Products: []string{},
		Status:   "processing",
	}
	if err := st.CreateUpload(upload); err != nil {
		t.Fatalf("create upload: %v", err)
	}
	return upload
}

func drain(ch <-chan ProgressEvent) []ProgressEvent {
	var events []ProgressEvent
	for evt := range ch {
		events = append(events, evt)
	}
	return events
}

func TestIngest(t *testing.T) {
	st := newTestStore(t)
	upload := setupUpload(t, st, "upload-1")

	path := writeCSV(t, `date,product_id,units_sold,price
2024-01-01,P1,10,2.5
2024-01-02,P1,12,2.5
2024-01-01,P2,7,4.0
`)

	coord := NewCoordinator(st)
	events := drain(coord.Ingest(IngestOptions{
		Upload:   upload,
		FilePath: path,
		Mapping:  parser.DefaultColumnMapping(),
	}))

	if len(events) == 0 {
		t.Fatal("expected progress events")
	}
	if events[0].Type != "start" {
		t.Fatalf("first event should be start, got %s", events[0].Type)
	}
	last := events[len(events)-1]
	if last.Type != "done" {
		t.Fatalf("last event should be done, got %s: %s", last.Type, last.Message)
	}

	got, err := st.GetUpload("upload-1", upload.UserID)
	if err != nil {
		t.Fatalf("get upload: %v", err)
	}
	if got.Status != "done" || got.RowCount != 3 {
		t.Fatalf("upload not finished: %+v", got)
	}
	// 商品列表按字典序
	if len(got.Products) != 2 || got.Products[0] != "P1" || got.Products[1] != "P2" {
		t.Fatalf("products mismatch: %v", got.Products)
	}

	records, err := st.GetSalesByUpload("upload-1")
	if err != nil || len(records) != 3 {
		t.Fatalf("sales not stored: len=%d err=%v", len(records), err)
	}
}

func TestIngestNegativeUnits(t *testing.T) {
	st := newTestStore(t)
	upload := setupUpload(t, st, "upload-1")

	path := writeCSV(t, `date,product_id,units_sold,price
2024-01-01,P1,10,2.5
2024-01-02,P1,-3,2.5
`)

	events := drain(NewCoordinator(st).Ingest(IngestOptions{
		Upload:   upload,
		FilePath: path,
		Mapping:  parser.DefaultColumnMapping(),
	}))

	last := events[len(events)-1]
	if last.Type != "error" {
		t.Fatalf("expected error event, got %s", last.Type)
	}

	got, err := st.GetUpload("upload-1", upload.UserID)
	if err != nil {
		t.Fatalf("get upload: %v", err)
	}
	if got.Status != "error" {
		t.Fatalf("upload should be marked error, got %s", got.Status)
	}

	// 校验失败时不写入任何行
	records, _ := st.GetSalesByUpload("upload-1")
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestIngestDuplicateProductDate(t *testing.T) {
	st := newTestStore(t)
	upload := setupUpload(t, st, "upload-1")

	// 同一商品同一日期出现两次；不同商品同日合法
	path := writeCSV(t, `date,product_id,units_sold,price
2024-01-01,P1,10,2.5
2024-01-01,P2,7,4.0
2024-01-01,P1,11,2.5
`)

	events := drain(NewCoordinator(st).Ingest(IngestOptions{
		Upload:   upload,
		FilePath: path,
		Mapping:  parser.DefaultColumnMapping(),
	}))

	last := events[len(events)-1]
	if last.Type != "error" {
		t.Fatalf("expected error event, got %s", last.Type)
	}
	if !strings.Contains(last.Message, "第 3 行") {
		t.Fatalf("error should reference the duplicate row: %s", last.Message)
	}

	got, err := st.GetUpload("upload-1", upload.UserID)
	if err != nil {
		t.Fatalf("get upload: %v", err)
	}
	if got.Status != "error" {
		t.Fatalf("upload should be marked error, got %s", got.Status)
	}
}

func TestIngestBadDate(t *testing.T) {
	st := newTestStore(t)
	upload := setupUpload(t, st, "upload-1")

	path := writeCSV(t, `date,product_id,units_sold,price
2024-01-01,P1,10,2.5
whenever,P1,3,2.5
`)

	events := drain(NewCoordinator(st).Ingest(IngestOptions{
		Upload:   upload,
		FilePath: path,
		Mapping:  parser.DefaultColumnMapping(),
	}))

	last := events[len(events)-1]
	if last.Type != "error" {
		t.Fatalf("expected error event, got %s", last.Type)
	}
}

func TestIngestMissingFile(t *testing.T) {
	st := newTestStore(t)
	upload := setupUpload(t, st, "upload-1")

	events := drain(NewCoordinator(st).Ingest(IngestOptions{
		Upload:   upload,
		FilePath: filepath.Join(t.TempDir(), "missing.csv"),
		Mapping:  parser.DefaultColumnMapping(),
	}))

	last := events[len(events)-1]
	if last.Type != "error" {
		t.Fatalf("expected error event, got %s", last.Type)
	}
}
