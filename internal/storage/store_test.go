package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/teams"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func writeAsset(t *testing.T, path string, asset any) {
	t.Helper()
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func scenarioAsset(id string, sc *game.Scenario) Asset[*game.Scenario] {
	return Asset[*game.Scenario]{Version: 1, Identifier: id, Spec: sc}
}

func completedResult(id string) *game.GameResult {
	done := t0.Add(time.Hour)
	r := &game.GameResult{
		GameID:        id,
		Difficulty:    economy.DifficultyNormal,
		StartedAt:     &t0,
		CompletedAt:   &done,
		ActiveSeconds: 3600,
	}
	for _, res := range economy.Resources {
		r.Prices = append(r.Prices, economy.BaselineQuote(res, 100))
	}
	return r
}

func TestNewFileStore(t *testing.T) {
	tests := map[string]struct {
		files    map[string]any
		expErr   string
		expCount int
	}{
		"empty directory": {},
		"scenarios": {
			files: map[string]any{
				"one.json": scenarioAsset("one", &game.Scenario{Name: "One"}),
				"two.json": scenarioAsset("two", &game.Scenario{Name: "Two", Difficulty: economy.DifficultyHard}),
			},
			expCount: 2,
		},
		"non json files are ignored": {
			files: map[string]any{
				"one.json":   scenarioAsset("one", &game.Scenario{}),
				"readme.txt": "ignore me",
			},
			expCount: 1,
		},
		"invalid json": {
			files:  map[string]any{"bad.json": json.RawMessage(`{invalid`)},
			expErr: "loading bad.json",
		},
		"validation error": {
			files: map[string]any{
				"bad.json": Asset[*game.Scenario]{Identifier: "bad", Spec: &game.Scenario{}},
			},
			expErr: "version must be set",
		},
		"invalid scenario": {
			files: map[string]any{
				"bad.json": scenarioAsset("bad", &game.Scenario{Baselines: map[economy.ResourceType]int{economy.ResourceFood: -1}}),
			},
			expErr: "baseline food",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for file, content := range tt.files {
				if s, ok := content.(string); ok {
					if err := os.WriteFile(filepath.Join(tmpDir, file), []byte(s), 0644); err != nil {
						t.Fatalf("failed to write test file: %v", err)
					}
					continue
				}
				if raw, ok := content.(json.RawMessage); ok {
					if err := os.WriteFile(filepath.Join(tmpDir, file), raw, 0644); err != nil {
						t.Fatalf("failed to write test file: %v", err)
					}
					continue
				}
				writeAsset(t, filepath.Join(tmpDir, file), content)
			}

			store, err := NewFileStore[*game.Scenario](tmpDir)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "record count", len(store.GetAll()), tt.expCount)
		})
	}
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*game.Scenario](filepath.Join(t.TempDir(), "missing"))
	testutil.AssertErrorContains(t, err, "no such file")
}

func TestNewFileStore_DuplicateKey(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "archive")
	if err := os.Mkdir(subDir, 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	asset := scenarioAsset("league", &game.Scenario{})
	writeAsset(t, filepath.Join(tmpDir, "league.json"), asset)
	writeAsset(t, filepath.Join(subDir, "league-copy.json"), asset)

	_, err := NewFileStore[*game.Scenario](tmpDir)
	testutil.AssertErrorContains(t, err, "duplicate key detected: league")
}

func TestFileStore_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeAsset(t, filepath.Join(tmpDir, "league.json"), scenarioAsset("league", &game.Scenario{
		Name:  "League",
		Teams: []teams.Team{{ID: "red"}, {ID: "blue"}},
	}))

	store, err := NewFileStore[*game.Scenario](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	tests := map[string]struct {
		id       string
		expOK    bool
		expName  string
		expTeams int
	}{
		"existing record": {id: "league", expOK: true, expName: "League", expTeams: 2},
		"missing record":  {id: "cup"},
		"empty id":        {id: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sc, ok := store.Get(tt.id)
			testutil.AssertEqual(t, "found", ok, tt.expOK)
			if !ok {
				return
			}
			testutil.AssertEqual(t, "name", sc.Name, tt.expName)
			testutil.AssertEqual(t, "teams", len(sc.Teams), tt.expTeams)
		})
	}
}

func TestFileStore_GetAll_ReturnsCopy(t *testing.T) {
	store, err := NewFileStore[*game.GameResult](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	if err := store.Save("g1", completedResult("g1")); err != nil {
		t.Fatalf("saving: %v", err)
	}

	all := store.GetAll()
	delete(all, "g1")

	_, ok := store.Get("g1")
	testutil.AssertEqual(t, "still stored", ok, true)
}

func TestFileStore_Save(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore[*game.GameResult](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	err = store.Save("9b2d-41aa", completedResult("9b2d-41aa"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, ok := store.Get("9b2d-41aa")
	testutil.AssertEqual(t, "cached", ok, true)
	testutil.AssertEqual(t, "cached active seconds", cached.ActiveSeconds, 3600.0)

	data, err := os.ReadFile(filepath.Join(tmpDir, "9b2d-41aa.json"))
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}

	var asset Asset[*game.GameResult]
	if err := json.Unmarshal(data, &asset); err != nil {
		t.Fatalf("failed to unmarshal saved data: %v", err)
	}
	testutil.AssertEqual(t, "asset version", asset.Version, uint(1))
	testutil.AssertEqual(t, "asset id", asset.Identifier, "9b2d-41aa")
	testutil.AssertEqual(t, "prices", len(asset.Spec.Prices), len(economy.Resources))

	reloaded, err := NewFileStore[*game.GameResult](tmpDir)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	r, ok := reloaded.Get("9b2d-41aa")
	testutil.AssertEqual(t, "reloaded", ok, true)
	testutil.AssertEqual(t, "reloaded completed at", r.CompletedAt.Equal(t0.Add(time.Hour)), true)
}

func TestFileStore_Save_Errors(t *testing.T) {
	tests := map[string]struct {
		id     string
		expErr string
	}{
		"empty id":       {id: "", expErr: "id must be set"},
		"path traversal": {id: "../../etc", expErr: "id must be alphanumeric"},
		"subject id":     {id: "econ.g1", expErr: "id must be alphanumeric"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store, err := NewFileStore[*game.GameResult](t.TempDir())
			if err != nil {
				t.Fatalf("unexpected error creating store: %v", err)
			}
			err = store.Save(tt.id, completedResult(tt.id))
			testutil.AssertErrorContains(t, err, tt.expErr)
			testutil.AssertEqual(t, "records", len(store.GetAll()), 0)
		})
	}
}

func TestFileStore_Save_OverwritesExisting(t *testing.T) {
	store, err := NewFileStore[*game.Scenario](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	if err := store.Save("league", &game.Scenario{Name: "Initial"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save("league", &game.Scenario{Name: "Updated"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, _ := store.Get("league")
	testutil.AssertEqual(t, "name", cached.Name, "Updated")
}

func TestFileStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore[*game.Scenario](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	if err := store.Save("league", &game.Scenario{}); err != nil {
		t.Fatalf("saving: %v", err)
	}

	if err := store.Delete("league"); err != nil {
		t.Fatalf("deleting: %v", err)
	}
	_, ok := store.Get("league")
	testutil.AssertEqual(t, "in memory", ok, false)

	_, err = os.Stat(filepath.Join(tmpDir, "league.json"))
	testutil.AssertEqual(t, "file removed", os.IsNotExist(err), true)

	testutil.AssertEqual(t, "unknown id", store.Delete("cup") == nil, true)
}

func TestFileStore_filePath(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore[*game.Scenario](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	testutil.AssertEqual(t, "file path", store.filePath("league"), filepath.Join(tmpDir, "league.json"))
}
