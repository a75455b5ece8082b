package db

import (
	"sync"
	"testing"

	"github.com/mschirtzinger/jira-lite/internal/models"
)

func TestMemoryDatabase_ReadIsolation(t *testing.T) {
	database := NewMemoryDatabase()
	state := models.NewState()
	epicID := state.AddEpic(models.NewEpic("E1", ""))
	if err := database.Write(state); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	got, err := database.Read()
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	got.AddEpic(models.NewEpic("E2", ""))
	epic := got.Epics[epicID]
	epic.Stories = append(epic.Stories, 99)
	got.Epics[epicID] = epic

	again, err := database.Read()
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(again.Epics) != 1 || again.LastItemID != 1 {
		t.Errorf("stored state mutated through Read() result: %+v", again)
	}
	if len(again.Epics[epicID].Stories) != 0 {
		t.Errorf("stored epic stories = %v, want empty", again.Epics[epicID].Stories)
	}
}

func TestMemoryDatabase_WriteIsolation(t *testing.T) {
	database := NewMemoryDatabase()
	state := models.NewState()
	state.AddEpic(models.NewEpic("E1", ""))
	if err := database.Write(state); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	// Mutating the caller's value after Write must not leak into the store.
	state.AddEpic(models.NewEpic("E2", ""))

	got, err := database.Read()
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(got.Epics) != 1 {
		t.Errorf("len(Epics) = %d, want 1", len(got.Epics))
	}
}

func TestMemoryDatabase_Writes(t *testing.T) {
	database := NewMemoryDatabase()
	if database.Writes() != 0 {
		t.Errorf("Writes() = %d, want 0", database.Writes())
	}
	_ = database.Write(models.NewState())
	_ = database.Write(nil)
	if database.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", database.Writes())
	}
}

func TestMemoryDatabase_ConcurrentAccess(t *testing.T) {
	database := NewMemoryDatabase()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				state, err := database.Read()
				if err != nil {
					t.Errorf("Read() failed: %v", err)
					return
				}
				state.AddEpic(models.NewEpic("E", ""))
				if err := database.Write(state); err != nil {
					t.Errorf("Write() failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if database.Writes() != 400 {
		t.Errorf("Writes() = %d, want 400", database.Writes())
	}
}
