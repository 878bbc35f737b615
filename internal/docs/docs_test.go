package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	got := Topics()
	want := []string{"about", "config", "format"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics() = %v, want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	md, ok := Get("  Format ")
	if !ok || !strings.HasPrefix(md, "# Tree file format") {
		t.Fatalf("expected the format topic; ok=%v", ok)
	}
	for _, topic := range []string{"", "nope", "../docs"} {
		if _, ok := Get(topic); ok {
			t.Fatalf("Get(%q) should fail", topic)
		}
	}
}
