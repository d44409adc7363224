// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temp SQLite database and a fake Oura server.
package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/nightly/internal/models"
	"github.com/harperreed/nightly/internal/oura"
	"github.com/harperreed/nightly/internal/storage"
)

var fixedNow = time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	nowFunc = func() time.Time { return fixedNow }
	os.Exit(m.Run())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty is today", input: "", want: "2024-03-11"},
		{name: "today", input: "today", want: "2024-03-11"},
		{name: "yesterday", input: "Yesterday", want: "2024-03-10"},
		{name: "last night", input: "last night", want: "2024-03-10"},
		{name: "iso date", input: "2024-02-29", want: "2024-02-29"},
		{name: "natural language", input: "3 days ago", want: "2024-03-08"},
		{name: "garbage", input: "not a date", wantErr: true},
		{name: "trailing date words", input: "foo tuesday", wantErr: true},
		{name: "date with suffix", input: "3 days ago please", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDate(%q) expected error, got %s", tt.input, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("parseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreviousDay(t *testing.T) {
	got, err := previousDay("2024-03-01")
	if err != nil {
		t.Fatalf("previousDay failed: %v", err)
	}
	if got != "2024-02-29" {
		t.Errorf("previousDay = %s, want 2024-02-29", got)
	}

	if _, err := previousDay("March 1"); err == nil {
		t.Error("Expected error for invalid date")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world this is long", 10, "hello w..."},
		{"", 10, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
}

func TestMinutesOrDash(t *testing.T) {
	if got := minutesOrDash(nil); got != "-" {
		t.Errorf("minutesOrDash(nil) = %q", got)
	}
	if got := minutesOrDash(models.IntPtr(455)); got != "7h35m" {
		t.Errorf("minutesOrDash(455) = %q, want 7h35m", got)
	}
}

func TestSleepSummary(t *testing.T) {
	rec := &models.SleepRecord{SleepScore: models.IntPtr(82), TotalSleepMinutes: models.IntPtr(450)}
	if got := sleepSummary(rec); got != "score 82, readiness -, 7h30m asleep" {
		t.Errorf("sleepSummary = %q", got)
	}
	if got := sleepSummary(nil); got != "no data" {
		t.Errorf("sleepSummary(nil) = %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string][]string{
		"habit":    {"add", "list", "edit", "delete"},
		"log":      {"set", "show", "copy", "clear"},
		"sleep":    {"show"},
		"insights": {"correlations", "trends"},
	}

	for parent, children := range want {
		cmd, _, err := rootCmd.Find([]string{parent})
		if err != nil || cmd.Name() != parent {
			t.Errorf("Expected %s command to be registered", parent)
			continue
		}
		for _, child := range children {
			sub, _, err := cmd.Find([]string{child})
			if err != nil || sub.Name() != child {
				t.Errorf("Expected %s %s to be registered", parent, child)
			}
		}
	}

	for _, name := range []string{"sync", "export", "import", "backup", "proxy", "mcp", "install-skill"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Expected %s command to be registered", name)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	expected := map[string]bool{"json": true, "yaml": true, "markdown": true}
	for _, arg := range exportCmd.ValidArgs {
		if !expected[arg] {
			t.Errorf("Unexpected valid arg: %s", arg)
		}
		delete(expected, arg)
	}
	if len(expected) > 0 {
		t.Errorf("Missing valid args: %v", expected)
	}
}

// resetFlags restores every command flag variable to its default.
func resetFlags() {
	habitCategory = string(models.CategoryNight)
	habitType = string(models.InputToggle)
	habitMax = 0
	habitOptions = nil
	habitListCat = ""
	habitListAll = false
	habitEditName = ""
	habitEditOrder = 0
	habitEditMax = 0
	habitEditOption = nil
	logDate = ""
	logCopyFrom = ""
	syncFrom = ""
	syncTo = ""
	insightsDays = 0
	exportOutput = ""
	exportSince = ""
	proxyAddr = ""
	verbose = false
}

// setupTestCLI sets up a test database for CLI testing.
// It points XDG_DATA_HOME and XDG_CONFIG_HOME at a temp directory.
func setupTestCLI(t *testing.T) (*storage.DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "nightly-cli-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	t.Setenv("XDG_DATA_HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("NIGHTLY_DATA_DIR", "")
	t.Setenv("NIGHTLY_OURA_TOKEN", "")
	t.Setenv("OURA_TOKEN", "")
	t.Setenv("NIGHTLY_OURA_BASE_URL", "")
	t.Setenv("NIGHTLY_LOG_FILE", "")
	resetFlags()

	// Pre-open the database to create the schema
	dbPath := filepath.Join(tmpDir, "nightly", "nightly.db")
	testDB, err := storage.Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open database: %v", err)
	}

	cleanup := func() {
		if db != nil {
			db.Close()
			db = nil
		}
		testDB.Close()
		os.RemoveAll(tmpDir)
	}

	return testDB, cleanup
}

func runCmd(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// captureStdout runs fn with os.Stdout redirected and returns what was printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	fn()
	w.Close()
	return <-done
}

func createHabit(t *testing.T, testDB *storage.DB, name string, category models.Category, inputType models.InputType) *models.Habit {
	t.Helper()
	h := models.NewHabit(name, category, inputType)
	if err := testDB.CreateHabit(h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	return h
}

func TestHabitAddCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	if err := runCmd("habit", "add", "Late", "meal", "--type", "toggle_time"); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	habits, err := testDB.ListHabits(nil, false)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("Expected 1 habit, got %d", len(habits))
	}
	if habits[0].Name != "Late meal" {
		t.Errorf("Name = %q, want %q", habits[0].Name, "Late meal")
	}
	if habits[0].Category != models.CategoryNight || habits[0].InputType != models.InputToggleTime {
		t.Errorf("Unexpected habit: %+v", habits[0])
	}
}

func TestHabitAddCmdWithMax(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	if err := runCmd("habit", "add", "Stress", "-c", "morning", "-t", "rating", "--max", "10"); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	h, err := testDB.GetHabit("stress")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if h.RatingMax() != 10 {
		t.Errorf("RatingMax = %d, want 10", h.RatingMax())
	}
}

func TestHabitAddCmdInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid type", []string{"habit", "add", "Nap", "--type", "slider"}},
		{"invalid category", []string{"habit", "add", "Nap", "--category", "noon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleanup := setupTestCLI(t)
			defer cleanup()

			if err := runCmd(tt.args...); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestHabitListCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggle)
	createHabit(t, testDB, "Energy", models.CategoryMorning, models.InputRating3Level)

	out := captureStdout(t, func() {
		if err := runCmd("habit", "list", "--category", "morning"); err != nil {
			t.Errorf("habit list failed: %v", err)
		}
	})

	if !strings.Contains(out, "Energy") || strings.Contains(out, "Alcohol") {
		t.Errorf("Unexpected list output:\n%s", out)
	}
}

func TestHabitListCmdEmpty(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	out := captureStdout(t, func() {
		if err := runCmd("habit", "list"); err != nil {
			t.Errorf("habit list failed: %v", err)
		}
	})
	if !strings.Contains(out, "No habits found.") {
		t.Errorf("Expected empty message, got:\n%s", out)
	}
}

func TestHabitEditCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	h := createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggle)

	if err := runCmd("habit", "edit", h.ID.String()[:8], "--name", "Drinks", "--order", "7"); err != nil {
		t.Fatalf("habit edit failed: %v", err)
	}

	got, err := testDB.GetHabit(h.ID.String())
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Drinks" {
		t.Errorf("Name = %s, want Drinks", got.Name)
	}
	if got.DisplayOrder != 7 {
		t.Errorf("DisplayOrder = %d, want 7", got.DisplayOrder)
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggle)

	if err := runCmd("habit", "rm", "alcohol"); err != nil {
		t.Fatalf("habit delete failed: %v", err)
	}

	active, _ := testDB.ListHabits(nil, false)
	if len(active) != 0 {
		t.Errorf("Expected no active habits, got %d", len(active))
	}
	all, _ := testDB.ListHabits(nil, true)
	if len(all) != 1 {
		t.Errorf("Expected deleted habit to be kept, got %d", len(all))
	}
}

func TestHabitDeleteCmdNotFound(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	if err := runCmd("habit", "delete", "nope"); err == nil {
		t.Error("Expected error for unknown habit")
	}
}

func TestLogSetCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	h := createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggleQuantityTime)

	if err := runCmd("log", "set", "Alcohol", "yes", "2", "20:30"); err != nil {
		t.Fatalf("log set failed: %v", err)
	}

	logs, err := testDB.GetLogsForDate("2024-03-11")
	if err != nil {
		t.Fatalf("GetLogsForDate failed: %v", err)
	}
	want := `{"enabled":true,"quantity":2,"time":"20:30"}`
	if logs[h.ID.String()] != want {
		t.Errorf("stored value = %q, want %q", logs[h.ID.String()], want)
	}
}

func TestLogSetCmdWithDate(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	h := createHabit(t, testDB, "Energy", models.CategoryMorning, models.InputRating3Level)

	if err := runCmd("log", "set", "energy", "high", "--date", "yesterday"); err != nil {
		t.Fatalf("log set failed: %v", err)
	}

	logs, _ := testDB.GetLogsForDate("2024-03-10")
	if logs[h.ID.String()] != "High" {
		t.Errorf("stored value = %q, want High", logs[h.ID.String()])
	}
}

func TestLogSetCmdErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown habit", []string{"log", "set", "nope", "yes"}},
		{"bad value", []string{"log", "set", "Stress", "11"}},
		{"bad date", []string{"log", "set", "Stress", "3", "--date", "not a date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB, cleanup := setupTestCLI(t)
			defer cleanup()
			createHabit(t, testDB, "Stress", models.CategoryMorning, models.InputRating)

			if err := runCmd(tt.args...); err == nil {
				t.Error("Expected error, got nil")
			}
			logs, _ := testDB.ListLogsSince("2000-01-01")
			if len(logs) != 0 {
				t.Errorf("Expected nothing stored, got %d logs", len(logs))
			}
		})
	}
}

func TestLogSetCmdDeletedHabit(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	h := createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggle)
	if err := testDB.DeleteHabit(h.ID.String()); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	err := runCmd("log", "set", "Alcohol", "yes")
	if err == nil || !strings.Contains(err.Error(), "deleted") {
		t.Errorf("Expected deleted error, got %v", err)
	}
}

func TestLogShowCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	h := createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggle)
	createHabit(t, testDB, "Energy", models.CategoryMorning, models.InputRating3Level)
	_ = testDB.UpsertLog("2024-03-10", h.ID.String(), "true")
	_ = testDB.InsertSleepRecord(&models.SleepRecord{Date: "2024-03-10", SleepScore: models.IntPtr(77)})

	out := captureStdout(t, func() {
		if err := runCmd("log", "show", "2024-03-10"); err != nil {
			t.Errorf("log show failed: %v", err)
		}
	})

	for _, want := range []string{"77", "Alcohol", "yes", "Energy"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestLogCopyCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	h := createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggle)
	_ = testDB.UpsertLog("2024-03-10", h.ID.String(), "true")

	if err := runCmd("log", "copy"); err != nil {
		t.Fatalf("log copy failed: %v", err)
	}

	logs, _ := testDB.GetLogsForDate("2024-03-11")
	if logs[h.ID.String()] != "true" {
		t.Errorf("Expected yesterday's log copied to today, got %v", logs)
	}
}

func TestLogCopyCmdSameDay(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	if err := runCmd("log", "copy", "2024-03-05", "--from", "2024-03-05"); err == nil {
		t.Error("Expected error when copying a day onto itself")
	}
}

func TestLogClearCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	h := createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggle)
	_ = testDB.UpsertLog("2024-03-09", h.ID.String(), "true")
	_ = testDB.UpsertLog("2024-03-10", h.ID.String(), "false")

	if err := runCmd("log", "clear", "2024-03-09"); err != nil {
		t.Fatalf("log clear failed: %v", err)
	}

	if logs, _ := testDB.GetLogsForDate("2024-03-09"); len(logs) != 0 {
		t.Errorf("Expected 2024-03-09 cleared, got %v", logs)
	}
	if logs, _ := testDB.GetLogsForDate("2024-03-10"); len(logs) != 1 {
		t.Errorf("Expected 2024-03-10 untouched, got %v", logs)
	}
}

func TestSleepShowCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	_ = testDB.InsertSleepRecord(&models.SleepRecord{
		Date:              "2024-03-10",
		SleepScore:        models.IntPtr(88),
		DeepSleepMinutes:  models.IntPtr(95),
		TotalSleepMinutes: models.IntPtr(470),
	})

	out := captureStdout(t, func() {
		if err := runCmd("sleep", "show", "yesterday"); err != nil {
			t.Errorf("sleep show failed: %v", err)
		}
	})
	if !strings.Contains(out, "88") || !strings.Contains(out, "1h35m") || !strings.Contains(out, "7h50m") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestSleepShowCmdNoData(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	out := captureStdout(t, func() {
		if err := runCmd("sleep", "show", "2024-01-01"); err != nil {
			t.Errorf("sleep show failed: %v", err)
		}
	})
	if !strings.Contains(out, "No sleep data for 2024-01-01") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

// newOuraServer serves a long sleep plus scores for every requested end_date.
func newOuraServer(t *testing.T, failEndpoint string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		endpoint := strings.TrimPrefix(r.URL.Path, "/")
		if endpoint == failEndpoint {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		day := r.URL.Query().Get("end_date")
		w.Header().Set("Content-Type", "application/json")
		switch endpoint {
		case oura.EndpointDailySleep:
			fmt.Fprintf(w, `{"data":[{"day":%q,"score":81}]}`, day)
		case oura.EndpointDailyReadiness:
			fmt.Fprintf(w, `{"data":[{"day":%q,"score":70}]}`, day)
		case oura.EndpointSleep:
			fmt.Fprintf(w, `{"data":[{"day":%q,"type":"long_sleep","total_sleep_duration":27000,"deep_sleep_duration":5400}]}`, day)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSyncCmdNoToken(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	err := runCmd("sync")
	if !errors.Is(err, oura.ErrNoToken) {
		t.Errorf("Expected ErrNoToken, got %v", err)
	}
}

func TestSyncCmdSingleDate(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	srv := newOuraServer(t, "")
	t.Setenv("NIGHTLY_OURA_TOKEN", "test-token")
	t.Setenv("NIGHTLY_OURA_BASE_URL", srv.URL)

	if err := runCmd("sync", "2024-03-10"); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	rec, err := testDB.GetSleepRecord("2024-03-10")
	if err != nil {
		t.Fatalf("GetSleepRecord failed: %v", err)
	}
	if *rec.SleepScore != 81 || *rec.ReadinessScore != 70 {
		t.Errorf("Unexpected scores: %+v", rec)
	}
	if *rec.TotalSleepMinutes != 450 || *rec.DeepSleepMinutes != 90 {
		t.Errorf("Unexpected minutes: total %d deep %d", *rec.TotalSleepMinutes, *rec.DeepSleepMinutes)
	}
}

func TestSyncCmdRange(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	srv := newOuraServer(t, "")
	t.Setenv("NIGHTLY_OURA_TOKEN", "test-token")
	t.Setenv("NIGHTLY_OURA_BASE_URL", srv.URL)

	if err := runCmd("sync", "--from", "2024-03-01", "--to", "2024-03-03"); err != nil {
		t.Fatalf("sync range failed: %v", err)
	}

	records, err := testDB.ListSleepRecordsSince("2024-03-01")
	if err != nil {
		t.Fatalf("ListSleepRecordsSince failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}
}

func TestSyncCmdUpstreamFailure(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	srv := newOuraServer(t, oura.EndpointSleep)
	t.Setenv("NIGHTLY_OURA_TOKEN", "test-token")
	t.Setenv("NIGHTLY_OURA_BASE_URL", srv.URL)

	if err := runCmd("sync", "2024-03-10"); err == nil {
		t.Error("Expected error when Oura fails")
	}
	if _, err := testDB.GetSleepRecord("2024-03-10"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected no record written, got %v", err)
	}
}

// seedInsights stores six scored nights ending yesterday; Alcohol is on for the three worst.
func seedInsights(t *testing.T, testDB *storage.DB) {
	t.Helper()
	h := createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggle)
	today := time.Now()
	for i := 1; i <= 6; i++ {
		date := today.AddDate(0, 0, -i).Format(models.DateFormat)
		score, deep := 85, 100
		if i%2 == 0 {
			score, deep = 70, 60
			_ = testDB.UpsertLog(date, h.ID.String(), "true")
		}
		_ = testDB.InsertSleepRecord(&models.SleepRecord{
			Date: date, SleepScore: models.IntPtr(score), DeepSleepMinutes: models.IntPtr(deep),
		})
	}
}

func TestInsightsCorrelationsCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()
	seedInsights(t, testDB)

	out := captureStdout(t, func() {
		if err := runCmd("insights", "correlations", "--days", "30"); err != nil {
			t.Errorf("insights correlations failed: %v", err)
		}
	})
	if !strings.Contains(out, "Alcohol") || !strings.Contains(out, "-15 score") || !strings.Contains(out, "-40 min deep") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestInsightsCorrelationsCmdNotEnoughData(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	out := captureStdout(t, func() {
		if err := runCmd("insights", "correlations"); err != nil {
			t.Errorf("insights correlations failed: %v", err)
		}
	})
	if !strings.Contains(out, "Not enough data in the last 90 days") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestInsightsTrendsCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()
	seedInsights(t, testDB)

	out := captureStdout(t, func() {
		if err := runCmd("insights", "trends", "-n", "3"); err != nil {
			t.Errorf("insights trends failed: %v", err)
		}
	})
	// The window starts three days back, so only nights 1..3 are included.
	lines := strings.Count(strings.TrimSpace(out), "\n")
	if lines != 3 {
		t.Errorf("Expected header plus 3 rows, got:\n%s", out)
	}
}

func seedExport(t *testing.T, testDB *storage.DB) {
	t.Helper()
	h := createHabit(t, testDB, "Alcohol", models.CategoryNight, models.InputToggle)
	_ = testDB.UpsertLog("2024-01-05", h.ID.String(), "true")
	_ = testDB.InsertSleepRecord(&models.SleepRecord{Date: "2024-01-06", SleepScore: models.IntPtr(80)})
}

func TestExportCmds(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"habits"`},
		{"yaml", "Alcohol"},
		{"markdown", "2024-01-06"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			testDB, cleanup := setupTestCLI(t)
			defer cleanup()
			seedExport(t, testDB)

			out := captureStdout(t, func() {
				if err := runCmd("export", tt.format); err != nil {
					t.Errorf("export %s failed: %v", tt.format, err)
				}
			})
			if !strings.Contains(out, tt.want) {
				t.Errorf("Expected %s export to contain %q:\n%s", tt.format, tt.want, out)
			}
		})
	}
}

func TestExportInvalidFormat(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	if err := runCmd("export", "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestExportToFileAndImport(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	seedExport(t, testDB)

	outFile := filepath.Join(t.TempDir(), "backup.json")
	err := runCmd("export", "json", "-o", outFile)
	cleanup()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	info, err := os.Stat(outFile)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %o", info.Mode().Perm())
	}

	// Import into a fresh database.
	freshDB, cleanup2 := setupTestCLI(t)
	defer cleanup2()

	if err := runCmd("import", outFile); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	habits, _ := freshDB.ListHabits(nil, true)
	if len(habits) != 1 || habits[0].Name != "Alcohol" {
		t.Errorf("Unexpected imported habits: %v", habits)
	}
	if _, err := freshDB.GetSleepRecord("2024-01-06"); err != nil {
		t.Errorf("Expected imported sleep record: %v", err)
	}
}

func TestImportCmdFileNotFound(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	if err := runCmd("import", "/nonexistent/backup.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestBackupCmd(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()
	seedExport(t, testDB)

	target := filepath.Join(t.TempDir(), "copy.db")
	if err := runCmd("backup", target); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	backup, err := storage.Open(target)
	if err != nil {
		t.Fatalf("Failed to open backup: %v", err)
	}
	defer backup.Close()

	habits, _ := backup.ListHabits(nil, true)
	if len(habits) != 1 {
		t.Errorf("Expected 1 habit in backup, got %d", len(habits))
	}
	logs, _ := backup.GetLogsForDate("2024-01-05")
	if len(logs) != 1 {
		t.Errorf("Expected 1 log in backup, got %d", len(logs))
	}
}

func TestBackupCmdExistingFile(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	target := filepath.Join(t.TempDir(), "exists.db")
	if err := os.WriteFile(target, []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := runCmd("backup", target); err == nil {
		t.Error("Expected error when target exists")
	}
}

func TestRootCmdLongDescription(t *testing.T) {
	if rootCmd.Long == "" {
		t.Error("Expected rootCmd.Long to be non-empty")
	}
	if !rootCmd.SilenceUsage {
		t.Error("Expected usage to be silenced on errors")
	}
}
