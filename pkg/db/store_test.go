package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	conn.SetMaxOpenConns(1)
	if err := InitDB(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustFrequency(t *testing.T, conn *sql.DB, word string) int {
	t.Helper()
	freq, err := GetFrequency(context.Background(), conn, word)
	if err != nil {
		t.Fatalf("frequency of %q: %v", word, err)
	}
	return freq
}

func TestMergeCountsAddsRawOccurrences(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	if err := MergeCounts(ctx, conn, []string{"राम", "राम", "सीता"}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got := mustFrequency(t, conn, "राम"); got != 2 {
		t.Errorf("राम frequency = %d, want 2", got)
	}
	if got := mustFrequency(t, conn, "सीता"); got != 1 {
		t.Errorf("सीता frequency = %d, want 1", got)
	}

	// A second merge increments existing records.
	if err := MergeCounts(ctx, conn, []string{"राम"}); err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if got := mustFrequency(t, conn, "राम"); got != 3 {
		t.Errorf("राम frequency after second merge = %d, want 3", got)
	}
}

func TestMergeCountsEmptyInput(t *testing.T) {
	conn := setupTestDB(t)
	if err := MergeCounts(context.Background(), conn, nil); err != nil {
		t.Fatalf("merge of empty input: %v", err)
	}
	n, err := CountWords(context.Background(), conn)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty dictionary, got %d words", n)
	}
}

func TestMergeCountsRollsBackOnFailure(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	if err := MergeCounts(ctx, conn, []string{"राम"}); err != nil {
		t.Fatalf("seed merge: %v", err)
	}

	// Simulate a storage failure mid-merge for one specific word.
	_, err := conn.Exec(`
CREATE TRIGGER fail_on_poison BEFORE INSERT ON words
WHEN NEW.word = 'जहर'
BEGIN SELECT RAISE(ABORT, 'simulated storage failure'); END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	err = MergeCounts(ctx, conn, []string{"राम", "जहर", "सीता"})
	if err == nil {
		t.Fatal("expected merge to fail on poisoned word")
	}

	// The whole chunk must be rolled back: राम keeps its pre-merge count
	// and सीता was never inserted.
	if got := mustFrequency(t, conn, "राम"); got != 1 {
		t.Errorf("राम frequency after rollback = %d, want 1", got)
	}
	if _, err := GetFrequency(ctx, conn, "सीता"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected सीता to be absent, got err %v", err)
	}
}

func TestAddWordUpsert(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	if err := MergeCounts(ctx, conn, []string{"राम", "राम", "राम"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := AddWord(ctx, conn, "राम"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := mustFrequency(t, conn, "राम"); got != 4 {
		t.Errorf("राम frequency = %d, want 4", got)
	}

	if err := AddWord(ctx, conn, "सीता"); err != nil {
		t.Fatalf("add new word: %v", err)
	}
	if got := mustFrequency(t, conn, "सीता"); got != 1 {
		t.Errorf("new word frequency = %d, want 1", got)
	}
}

func TestRemoveWord(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	if err := AddWord(ctx, conn, "राम"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := RemoveWord(ctx, conn, "राम"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := GetFrequency(ctx, conn, "राम"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected word to be gone, got err %v", err)
	}
	if err := RemoveWord(ctx, conn, "राम"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestListWords(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	// गीता=1, राम=2, सीता=5
	tokens := []string{"गीता", "राम", "राम"}
	for i := 0; i < 5; i++ {
		tokens = append(tokens, "सीता")
	}
	if err := MergeCounts(ctx, conn, tokens); err != nil {
		t.Fatalf("seed: %v", err)
	}

	byWord, err := ListWords(ctx, conn, ListOptions{SortBy: ByWord, Ascending: true})
	if err != nil {
		t.Fatalf("list by word: %v", err)
	}
	wantOrder := []string{"गीता", "राम", "सीता"}
	if len(byWord) != len(wantOrder) {
		t.Fatalf("expected %d entries, got %d", len(wantOrder), len(byWord))
	}
	for i, w := range wantOrder {
		if byWord[i].Word != w {
			t.Errorf("byWord[%d] = %q, want %q", i, byWord[i].Word, w)
		}
	}

	top, err := ListWords(ctx, conn, ListOptions{Limit: 1, SortBy: ByFrequency})
	if err != nil {
		t.Fatalf("list top: %v", err)
	}
	if len(top) != 1 || top[0].Word != "सीता" || top[0].Frequency != 5 {
		t.Errorf("top entry = %+v, want सीता with frequency 5", top)
	}

	second, err := ListWords(ctx, conn, ListOptions{Limit: 1, Offset: 1, SortBy: ByFrequency})
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(second) != 1 || second[0].Word != "राम" {
		t.Errorf("second entry = %+v, want राम", second)
	}

	// Offset without a limit skips entries and returns the rest.
	rest, err := ListWords(ctx, conn, ListOptions{Offset: 1, SortBy: ByWord, Ascending: true})
	if err != nil {
		t.Fatalf("list offset without limit: %v", err)
	}
	if len(rest) != 2 || rest[0].Word != "राम" || rest[1].Word != "सीता" {
		t.Errorf("offset-only list = %+v, want [राम सीता]", rest)
	}
}

func TestSuggestWords(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	seed := []string{"रामायण", "रामायण", "सीता"}
	for i := 0; i < 5; i++ {
		seed = append(seed, "राम")
	}
	if err := MergeCounts(ctx, conn, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := SuggestWords(ctx, conn, "राम", 5)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	want := []string{"राम", "रामायण"}
	if len(got) != len(want) {
		t.Fatalf("suggestions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("suggestion[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Limit 1 returns only the exact match.
	got, err = SuggestWords(ctx, conn, "राम", 1)
	if err != nil {
		t.Fatalf("suggest limit 1: %v", err)
	}
	if len(got) != 1 || got[0] != "राम" {
		t.Errorf("suggestions = %v, want exactly [राम]", got)
	}

	// No matches at all.
	got, err = SuggestWords(ctx, conn, "क", 5)
	if err != nil {
		t.Fatalf("suggest no match: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}

func TestResetWordsKeepsMetadata(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	if err := AddWord(ctx, conn, "राम"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := ResetWords(ctx, conn); err != nil {
		t.Fatalf("reset: %v", err)
	}

	n, err := CountWords(ctx, conn)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 words after reset, got %d", n)
	}

	info, err := GetInfo(ctx, conn, ":memory:")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if len(info.Meta) == 0 {
		t.Fatal("expected metadata to survive reset")
	}
}

func TestGetInfo(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	if err := MergeCounts(ctx, conn, []string{"राम", "सीता"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	info, err := GetInfo(ctx, conn, "/tmp/dict.db")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Path != "/tmp/dict.db" {
		t.Errorf("path = %q", info.Path)
	}
	if info.Words != 2 {
		t.Errorf("word count = %d, want 2", info.Words)
	}

	meta := make(map[string]string, len(info.Meta))
	for _, m := range info.Meta {
		meta[m.Key] = m.Value
	}
	if meta["format_version"] != "1.0" {
		t.Errorf("format_version = %q, want 1.0", meta["format_version"])
	}
	if meta["engine"] != "lekhika" {
		t.Errorf("engine = %q, want lekhika", meta["engine"])
	}
	if meta["script"] != "Devanagari" {
		t.Errorf("script = %q, want Devanagari", meta["script"])
	}
}
