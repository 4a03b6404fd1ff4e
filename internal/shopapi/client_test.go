package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// --- helpers ---

func backendServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(handler)
}

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	return NewHTTPClient(baseURL, 5*time.Second)
}

// --- WorkCenters ---

func TestWorkCenters_PreservesOrderAndLenientFields(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/work_centers" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"SAW-01": {"available_work": 3, "backlog": 9, "efficiency": "85%"},
			"MILL-02": {"available_work": "2", "backlog": null, "efficiency": 61},
			"LATHE-03": {"available_work": 0, "backlog": 1, "efficiency": "n/a"}
		}`))
	})
	defer ts.Close()

	wcs, err := newTestClient(t, ts.URL).WorkCenters(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wcs) != 3 {
		t.Fatalf("expected 3 work centers, got %d", len(wcs))
	}

	names := wcs.Names()
	if names[0] != "SAW-01" || names[1] != "MILL-02" || names[2] != "LATHE-03" {
		t.Errorf("order not preserved: %v", names)
	}
	if wcs[0].Efficiency.Int() != 85 {
		t.Errorf("expected efficiency 85, got %d", wcs[0].Efficiency.Int())
	}
	if wcs[1].AvailableWork.Value != 2 {
		t.Errorf("expected numeric string to decode, got %v", wcs[1].AvailableWork)
	}
	if wcs[1].Backlog.Valid {
		t.Errorf("expected null backlog to be invalid")
	}
	if wcs[2].Efficiency.Valid {
		t.Errorf("expected non-numeric efficiency to be invalid")
	}
}

func TestWorkCenters_ServerError(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).WorkCenters(context.Background())
	if !errors.Is(err, ErrBackendStatus) {
		t.Fatalf("expected ErrBackendStatus, got %v", err)
	}
}

func TestWorkCenters_NotJSON(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	})
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).WorkCenters(context.Background())
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

// --- Jobs ---

func TestJobs_DecodesNestedRecords(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"job_number": "J1",
			"work_orders": [{
				"work_order_number": "W1",
				"due_date": "2026-10-18",
				"operations": [
					{"operation_number": 10, "work_center": "SAW", "status": "Completed",
					 "planned_hours": 2.5, "actual_hours": 2, "completed_at": "2026-10-17T09:15:00"}
				]
			}]
		}]`))
	})
	defer ts.Close()

	jobs, err := newTestClient(t, ts.URL).Jobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 || len(jobs[0].WorkOrders) != 1 {
		t.Fatalf("unexpected shape: %+v", jobs)
	}
	op := jobs[0].WorkOrders[0].Operations[0]
	if op.OperationNumber.String() != "10" {
		t.Errorf("unexpected operation number: %s", op.OperationNumber.String())
	}
	if !op.Completed() {
		t.Errorf("expected operation to be completed")
	}
	if op.PlannedHours.Value != 2.5 {
		t.Errorf("unexpected planned hours: %v", op.PlannedHours.Value)
	}
}

func TestJobs_NullBodyYieldsEmptySlice(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})
	defer ts.Close()

	jobs, err := newTestClient(t, ts.URL).Jobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobs == nil || len(jobs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", jobs)
	}
}

func TestBoardJobs_SchedulerSchema(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 7, "scheduled": false, "Task": "Cut stock", "Work_Center": "SAW", "Planned_Hours": 4},
			{"id": "8", "scheduled": true, "Task": "Deburr", "Work_Center": "BENCH", "Planned_Hours": "1.5"}
		]`))
	})
	defer ts.Close()

	jobs, err := newTestClient(t, ts.URL).BoardJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobs[0].ID != "7" || jobs[1].ID != "8" {
		t.Errorf("ids not normalized: %q %q", jobs[0].ID, jobs[1].ID)
	}
	if jobs[1].PlannedHours.Value != 1.5 {
		t.Errorf("unexpected planned hours: %v", jobs[1].PlannedHours.Value)
	}
}

// --- Forecast ---

func TestForecast_PreservesOrder(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"B": {"planned": 10, "actual": 5, "forecasted": 6, "remaining": 5},
		                 "A": {"planned": 4, "actual": 4, "forecasted": 0, "remaining": 0}}`))
	})
	defer ts.Close()

	set, err := newTestClient(t, ts.URL).Forecast(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 2 || set[0].WorkCenter != "B" || set[1].WorkCenter != "A" {
		t.Fatalf("unexpected forecast order: %+v", set)
	}
}

// --- Schedule ---

func TestSchedule_ForwardsWindow(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") != "2026-10-01" || r.URL.Query().Get("end") != "2026-11-01" {
			t.Errorf("window not forwarded: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"id": 1, "title": "W1 - Op 10", "start": "2026-10-20"}]`))
	})
	defer ts.Close()

	raw, err := newTestClient(t, ts.URL).Schedule(context.Background(), "2026-10-01", "2026-11-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var events []map[string]any
	if err := json.Unmarshal(raw, &events); err != nil {
		t.Fatalf("raw feed is not JSON: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
}

func TestUpdateSchedule_PostsBody(t *testing.T) {
	var got models.ScheduleUpdate
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/schedule/update" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})
	defer ts.Close()

	start := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	status, err := newTestClient(t, ts.URL).UpdateSchedule(context.Background(), models.ScheduleUpdate{
		ID: "42", Start: start, End: start, Title: "W1 - Op 10",
		ExtendedProps: map[string]any{"workCenter": "SAW"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("unexpected status: %d", status)
	}
	if got.ID != "42" || !got.Start.Equal(start) || got.ExtendedProps["workCenter"] != "SAW" {
		t.Errorf("unexpected body: %+v", got)
	}
}

func TestUpdateSchedule_ErrorStatus(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer ts.Close()

	status, err := newTestClient(t, ts.URL).UpdateSchedule(context.Background(), models.ScheduleUpdate{ID: "1"})
	if !errors.Is(err, ErrBackendStatus) {
		t.Fatalf("expected ErrBackendStatus, got %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("expected 404 to be reported, got %d", status)
	}
}

// --- Upload ---

func TestUpload_SendsMultipartFile(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file field: %v", err)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if header.Filename != "SAPDATA.xlsx" || string(body) != "sheet-bytes" {
			t.Errorf("unexpected upload: %s %q", header.Filename, body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "success", "message": "Data imported successfully"}`))
	})
	defer ts.Close()

	resp, err := newTestClient(t, ts.URL).Upload(context.Background(), "SAPDATA.xlsx", strings.NewReader("sheet-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success() {
		t.Errorf("expected success, got %+v", resp)
	}
}

func TestUpload_ErrorBodyIsReturned(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Invalid file format. Please upload an Excel (.xlsx) file"}`))
	})
	defer ts.Close()

	resp, err := newTestClient(t, ts.URL).Upload(context.Background(), "notes.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Success() || resp.Error == "" {
		t.Errorf("expected backend error to be surfaced, got %+v", resp)
	}
}

func TestUpload_NonJSONBody(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write([]byte("Request Entity Too Large"))
	})
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).Upload(context.Background(), "big.xlsx", strings.NewReader("x"))
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

// --- transport ---

func TestUnreachableBackend(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", time.Second)
	_, err := c.Jobs(context.Background())
	if !errors.Is(err, ErrBackendUnreachable) && !errors.Is(err, ErrBackendTimeout) {
		t.Fatalf("expected transport sentinel, got %v", err)
	}
}

func TestCancelledContextIsTimeout(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(t, ts.URL).Forecast(ctx)
	if !errors.Is(err, ErrBackendTimeout) {
		t.Fatalf("expected ErrBackendTimeout, got %v", err)
	}
}

func TestReady(t *testing.T) {
	ts := backendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	defer ts.Close()

	if err := newTestClient(t, ts.URL).Ready(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
