package audio

import "testing"

func TestNullManager(t *testing.T) {
	var m Manager = Null{}
	stream, err := m.Play("anything")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if stream == nil {
		t.Fatalf("null manager should still hand back a stream")
	}
	stream.Stop()
	stream.Stop() // stopping twice is fine
}
