package tracker

import (
	"bytes"
	"errors"
	"io"
	"log"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mschirtzinger/jira-lite/internal/db"
	"github.com/mschirtzinger/jira-lite/internal/models"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// failingDB returns canned errors and records writes.
type failingDB struct {
	state    *models.State
	readErr  error
	writeErr error
	writes   int
}

func (f *failingDB) Read() (*models.State, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.state.Clone(), nil
}

func (f *failingDB) Write(state *models.State) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.state = state.Clone()
	return nil
}

func TestTracker_Scenario(t *testing.T) {
	database := db.NewMemoryDatabase()
	tr := New(database, quietLogger())

	epicID, err := tr.CreateEpic(models.NewEpic("E1", "d"))
	if err != nil {
		t.Fatalf("CreateEpic() failed: %v", err)
	}
	if epicID != 1 {
		t.Errorf("CreateEpic() = %d, want 1", epicID)
	}

	storyID, err := tr.CreateStory(models.NewStory("S1", "d"), epicID)
	if err != nil {
		t.Fatalf("CreateStory() failed: %v", err)
	}
	if storyID != 2 {
		t.Errorf("CreateStory() = %d, want 2", storyID)
	}

	if err := tr.UpdateStoryStatus(storyID, models.StatusResolved); err != nil {
		t.Fatalf("UpdateStoryStatus() failed: %v", err)
	}
	if err := tr.UpdateEpicStatus(epicID, models.StatusInProgress); err != nil {
		t.Fatalf("UpdateEpicStatus() failed: %v", err)
	}

	state, err := tr.ReadDB()
	if err != nil {
		t.Fatalf("ReadDB() failed: %v", err)
	}
	want := &models.State{
		LastItemID: 2,
		Epics: map[uint32]models.Epic{
			1: {Name: "E1", Description: "d", Status: models.StatusInProgress, Stories: []uint32{2}},
		},
		Stories: map[uint32]models.Story{
			2: {Name: "S1", Description: "d", Status: models.StatusResolved},
		},
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	if err := tr.DeleteEpic(epicID); err != nil {
		t.Fatalf("DeleteEpic() failed: %v", err)
	}
	state, err = tr.ReadDB()
	if err != nil {
		t.Fatalf("ReadDB() failed: %v", err)
	}
	if len(state.Epics) != 0 || len(state.Stories) != 0 {
		t.Errorf("state after DeleteEpic() = %+v, want empty collections", state)
	}
	if state.LastItemID != 2 {
		t.Errorf("LastItemID = %d, want 2", state.LastItemID)
	}
}

func TestTracker_DeleteStory(t *testing.T) {
	database := db.NewMemoryDatabase()
	tr := New(database, quietLogger())

	epicID, _ := tr.CreateEpic(models.NewEpic("E1", ""))
	storyID, _ := tr.CreateStory(models.NewStory("S1", ""), epicID)

	// Wrong epic: nothing is removed.
	if err := tr.DeleteStory(epicID+10, storyID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("DeleteStory() error = %v, want ErrNotFound", err)
	}
	state, _ := tr.ReadDB()
	if _, ok := state.Stories[storyID]; !ok {
		t.Fatal("story removed despite wrong epic id")
	}

	if err := tr.DeleteStory(epicID, storyID); err != nil {
		t.Fatalf("DeleteStory() failed: %v", err)
	}
	state, _ = tr.ReadDB()
	if _, ok := state.Stories[storyID]; ok {
		t.Error("story still present")
	}
	if len(state.Epics[epicID].Stories) != 0 {
		t.Errorf("epic stories = %v, want empty", state.Epics[epicID].Stories)
	}
}

func TestTracker_NoWriteOnFailure(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Tracker) error
	}{
		{name: "update epic status", run: func(tr *Tracker) error { return tr.UpdateEpicStatus(99, models.StatusClosed) }},
		{name: "update story status", run: func(tr *Tracker) error { return tr.UpdateStoryStatus(99, models.StatusClosed) }},
		{name: "delete epic", run: func(tr *Tracker) error { return tr.DeleteEpic(99) }},
		{name: "delete story", run: func(tr *Tracker) error { return tr.DeleteStory(1, 99) }},
		{name: "create story", run: func(tr *Tracker) error {
			_, err := tr.CreateStory(models.NewStory("S", ""), 99)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database := db.NewMemoryDatabase()
			tr := New(database, quietLogger())
			if _, err := tr.CreateEpic(models.NewEpic("E1", "")); err != nil {
				t.Fatalf("CreateEpic() failed: %v", err)
			}
			before := database.Writes()

			err := tt.run(tr)
			if !errors.Is(err, models.ErrNotFound) {
				t.Fatalf("error = %v, want ErrNotFound", err)
			}
			if db.IsFatal(err) {
				t.Errorf("IsFatal(%v) = true, want false", err)
			}
			if got := database.Writes(); got != before {
				t.Errorf("Writes() = %d, want %d (no write after failure)", got, before)
			}
		})
	}
}

func TestTracker_InvalidStatus(t *testing.T) {
	database := db.NewMemoryDatabase()
	tr := New(database, quietLogger())
	epicID, err := tr.CreateEpic(models.NewEpic("E1", ""))
	if err != nil {
		t.Fatalf("CreateEpic() failed: %v", err)
	}
	storyID, err := tr.CreateStory(models.NewStory("S1", ""), epicID)
	if err != nil {
		t.Fatalf("CreateStory() failed: %v", err)
	}
	before := database.Writes()

	if err := tr.UpdateEpicStatus(epicID, "Bogus"); !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("UpdateEpicStatus(Bogus) error = %v, want ErrInvalidStatus", err)
	}
	if err := tr.UpdateStoryStatus(storyID, "Bogus"); !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("UpdateStoryStatus(Bogus) error = %v, want ErrInvalidStatus", err)
	}
	if got := database.Writes(); got != before {
		t.Errorf("Writes() = %d, want %d (no write after failure)", got, before)
	}
}

func TestTracker_CounterExhausted(t *testing.T) {
	database := db.NewMemoryDatabase()
	start := models.NewState()
	start.LastItemID = math.MaxUint32 - 1
	if err := database.Write(start); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	tr := New(database, quietLogger())

	// Allocating one more id leaves the counter at its limit, which cannot be stored.
	_, err := tr.CreateEpic(models.NewEpic("E", ""))
	if !errors.Is(err, db.ErrIO) {
		t.Fatalf("CreateEpic() error = %v, want ErrIO", err)
	}

	state, err := tr.ReadDB()
	if err != nil {
		t.Fatalf("ReadDB() failed: %v", err)
	}
	if diff := cmp.Diff(start, state); diff != "" {
		t.Errorf("state changed after rejected create (-want +got):\n%s", diff)
	}
}

func TestTracker_UpdateEpicStatusNotFound(t *testing.T) {
	tr := New(db.NewMemoryDatabase(), quietLogger())

	err := tr.UpdateEpicStatus(99, models.StatusClosed)
	var nf *models.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if nf.ID != 99 || nf.Kind != models.KindEpic {
		t.Errorf("NotFoundError = %+v, want epic 99", nf)
	}
}

func TestTracker_ReadFailure(t *testing.T) {
	readErr := &db.ParseError{Path: "db.json", Err: errors.New("unexpected end of JSON input")}
	fake := &failingDB{readErr: readErr}
	tr := New(fake, quietLogger())

	_, err := tr.CreateEpic(models.NewEpic("E1", ""))
	if !errors.Is(err, db.ErrParse) {
		t.Fatalf("CreateEpic() error = %v, want ErrParse", err)
	}
	if !db.IsFatal(err) {
		t.Errorf("IsFatal(%v) = false, want true", err)
	}
	if fake.writes != 0 {
		t.Errorf("writes = %d, want 0", fake.writes)
	}

	if _, err := tr.ReadDB(); !errors.Is(err, db.ErrParse) {
		t.Errorf("ReadDB() error = %v, want ErrParse", err)
	}
}

func TestTracker_WriteFailure(t *testing.T) {
	writeErr := &db.IOError{Op: "write", Path: "db.json", Err: errors.New("disk full")}
	fake := &failingDB{state: models.NewState(), writeErr: writeErr}
	tr := New(fake, quietLogger())

	id, err := tr.CreateEpic(models.NewEpic("E1", ""))
	if id != 0 {
		t.Errorf("CreateEpic() id = %d, want 0 on failure", id)
	}
	if !errors.Is(err, db.ErrIO) {
		t.Fatalf("CreateEpic() error = %v, want ErrIO", err)
	}
	if fake.writes != 1 {
		t.Errorf("writes = %d, want 1", fake.writes)
	}
}

func TestTracker_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	database, closer, err := db.Open(db.Config{Backend: db.BackendJSON, Path: path})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer closer.Close()

	tr := New(database, quietLogger())
	epicID, err := tr.CreateEpic(models.NewEpic("E1", "d"))
	if err != nil {
		t.Fatalf("CreateEpic() failed: %v", err)
	}
	if _, err := tr.CreateStory(models.NewStory("S1", "d"), epicID); err != nil {
		t.Fatalf("CreateStory() failed: %v", err)
	}

	// A fresh tracker over the same file sees the persisted state.
	reopened := New(db.NewJSONFileDatabase(path), quietLogger())
	state, err := reopened.ReadDB()
	if err != nil {
		t.Fatalf("ReadDB() failed: %v", err)
	}
	if state.LastItemID != 2 || !cmp.Equal(state.Epics[epicID].Stories, []uint32{2}) {
		t.Errorf("reloaded state = %+v, want epic 1 with story 2", state)
	}
}

func TestTracker_Logging(t *testing.T) {
	var buf bytes.Buffer
	tr := New(db.NewMemoryDatabase(), log.New(&buf, "[tracker] ", 0))

	epicID, _ := tr.CreateEpic(models.NewEpic("Logged", ""))
	_ = tr.DeleteEpic(epicID)
	_ = tr.DeleteEpic(epicID)

	out := buf.String()
	for _, want := range []string{"[tracker] Created epic 1 (Logged)", "[tracker] Deleted epic 1 and 0 stories"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "Deleted epic") != 1 {
		t.Errorf("failed delete was logged as success:\n%s", out)
	}
}

func TestNew_DefaultLogger(t *testing.T) {
	tr := New(db.NewMemoryDatabase(), nil)
	if tr.logger == nil {
		t.Fatal("logger is nil")
	}
	if tr.logger.Prefix() != "[tracker] " {
		t.Errorf("Prefix() = %q, want %q", tr.logger.Prefix(), "[tracker] ")
	}
}
