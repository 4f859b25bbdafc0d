package utils

import (
	"strings"
	"testing"
)

func TestComputePages(t *testing.T) {
	cases := []struct {
		count    int64
		pageSize int64
		want     int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}

	for _, c := range cases {
		if got := ComputePages(c.count, c.pageSize); got != c.want {
			t.Errorf("ComputePages(%d, %d): expected %d, got %d", c.count, c.pageSize, c.want, got)
		}
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID("p", 12)
	if !strings.HasPrefix(id, "p") {
		t.Fatalf("expected p prefix, got %q", id)
	}
	if len(id) != 13 {
		t.Fatalf("expected 13 characters, got %d", len(id))
	}
}

func TestGenerateRandomStringLength(t *testing.T) {
	if got := len(GenerateRandomString(16)); got != 16 {
		t.Fatalf("expected length 16, got %d", got)
	}
}

func TestContains(t *testing.T) {
	roles := []string{"user", "admin"}
	if !Contains(roles, "admin") {
		t.Fatal("expected admin to be found")
	}
	if Contains(roles, "moderator") {
		t.Fatal("moderator should not be found")
	}
}
