package datasets

import "testing"

func TestChunk(t *testing.T) {
	got := Chunk(10, 4)
	want := [][2]int{{0, 4}, {4, 8}, {8, 10}}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %v, want %v", i, got[i], want[i])
		}
	}
	if Chunk(0, 4) != nil {
		t.Error("empty input should chunk to nil")
	}
	if got := Chunk(3, 0); len(got) != 3 {
		t.Errorf("zero size should clamp to 1, got %v", got)
	}
}
