package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dsalvin/oracle-project-backend/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "oracle.db")
	st, err := New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func createTestUser(t *testing.T, st *Store, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, FirstName: "Test", HashedPassword: "hashed"}
	id, err := st.CreateUser(u)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	u.ID = id
	return u
}

func createTestUpload(t *testing.T, st *Store, userID int64, id string) *model.Upload {
	t.Helper()
	u := &model.Upload{
		ID:       id,
		UserID:   userID,
		Filename: "sales.csv",
		FilePath: "/tmp/sales.csv",
		Products: []string{},
		Status:   "processing",
	}
	if err := st.CreateUpload(u); err != nil {
		t.Fatalf("create upload: %v", err)
	}
	return u
}

func TestUserLifecycle(t *testing.T) {
	st := newTestStore(t)

	user := createTestUser(t, st, "user@example.com")

	got, err := st.GetUserByEmail("user@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != user.ID || got.HashedPassword != "hashed" {
		t.Fatalf("user mismatch: %+v", got)
	}

	byID, err := st.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != "user@example.com" {
		t.Fatalf("email mismatch: %s", byID.Email)
	}

	if _, err := st.GetUserByEmail("missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	n, err := st.CountUsers()
	if err != nil || n != 1 {
		t.Fatalf("count users: n=%d err=%v", n, err)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	st := newTestStore(t)

	createTestUser(t, st, "dup@example.com")
	if _, err := st.CreateUser(&model.User{Email: "dup@example.com"}); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestUploadLifecycle(t *testing.T) {
	st := newTestStore(t)
	user := createTestUser(t, st, "user@example.com")

	createTestUpload(t, st, user.ID, "upload-1")

	if err := st.FinishUpload("upload-1", 42, []string{"P1", "P2"}, "done"); err != nil {
		t.Fatalf("finish upload: %v", err)
	}

	got, err := st.GetUpload("upload-1", user.ID)
	if err != nil {
		t.Fatalf("get upload: %v", err)
	}
	if got.RowCount != 42 || got.Status != "done" || len(got.Products) != 2 {
		t.Fatalf("upload mismatch: %+v", got)
	}

	// 不能读到其他用户的上传
	if _, err := st.GetUpload("upload-1", user.ID+1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}

	list, err := st.ListUploads(user.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list uploads: len=%d err=%v", len(list), err)
	}
}

func TestSalesRoundTrip(t *testing.T) {
	st := newTestStore(t)
	user := createTestUser(t, st, "user@example.com")
	createTestUpload(t, st, user.ID, "upload-1")

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	records := []*model.SalesRecord{
		{UploadID: "upload-1", ProductID: "P1", Date: day(2), UnitsSold: 12, Price: 2.5},
		{UploadID: "upload-1", ProductID: "P1", Date: day(1), UnitsSold: 10, Price: 2.5},
		{UploadID: "upload-1", ProductID: "P2", Date: day(1), UnitsSold: 7, Price: 4},
	}
	if err := st.BatchInsertSales(records); err != nil {
		t.Fatalf("batch insert: %v", err)
	}

	all, err := st.GetSalesByUpload("upload-1")
	if err != nil {
		t.Fatalf("get by upload: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}

	p1, err := st.GetSalesByProduct("upload-1", "P1")
	if err != nil {
		t.Fatalf("get by product: %v", err)
	}
	if len(p1) != 2 {
		t.Fatalf("expected 2 records, got %d", len(p1))
	}
	// 按日期升序返回
	if !p1[0].Date.Before(p1[1].Date) {
		t.Fatalf("records not ordered by date: %v, %v", p1[0].Date, p1[1].Date)
	}
	if p1[0].UnitsSold != 10 {
		t.Fatalf("expected units 10, got %f", p1[0].UnitsSold)
	}

	if err := st.DeleteSalesByUpload("upload-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, err = st.GetSalesByUpload("upload-1")
	if err != nil || len(all) != 0 {
		t.Fatalf("expected empty after delete: len=%d err=%v", len(all), err)
	}
}

func TestForecastUpsert(t *testing.T) {
	st := newTestStore(t)
	user := createTestUser(t, st, "user@example.com")
	createTestUpload(t, st, user.ID, "upload-1")

	rec := &model.ForecastRecord{
		UploadID:  "upload-1",
		ProductID: "P1",
		Horizon:   30,
		Insight:   "first",
		Points: []model.ForecastPoint{
			{Timestamp: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), PredictedValue: 11, LowerBound: 9, UpperBound: 13},
		},
	}
	if _, err := st.SaveForecast(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := st.GetForecast("upload-1", "P1", 30)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Insight != "first" || len(got.Points) != 1 {
		t.Fatalf("forecast mismatch: %+v", got)
	}
	if got.Points[0].PredictedValue != 11 {
		t.Fatalf("point mismatch: %+v", got.Points[0])
	}

	// 同键覆盖
	rec.Insight = "second"
	if _, err := st.SaveForecast(rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err = st.GetForecast("upload-1", "P1", 30)
	if err != nil || got.Insight != "second" {
		t.Fatalf("upsert not applied: %+v err=%v", got, err)
	}

	n, err := st.CountForecasts()
	if err != nil || n != 1 {
		t.Fatalf("count forecasts: n=%d err=%v", n, err)
	}

	// 不同 horizon 是独立记录
	if _, err := st.GetForecast("upload-1", "P1", 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.GetSetting("default_horizon"); err == nil {
		t.Fatal("expected error for missing key")
	}

	if err := st.SetSettingInt("default_horizon", 14); err != nil {
		t.Fatalf("set: %v", err)
	}
	n, err := st.GetSettingInt("default_horizon")
	if err != nil || n != 14 {
		t.Fatalf("get: n=%d err=%v", n, err)
	}

	// 覆盖旧值
	if err := st.SetSettingInt("default_horizon", 60); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	n, _ = st.GetSettingInt("default_horizon")
	if n != 60 {
		t.Fatalf("expected 60, got %d", n)
	}

	all, err := st.GetAllSettings()
	if err != nil || all["default_horizon"] != "60" {
		t.Fatalf("get all: %v err=%v", all, err)
	}
}
