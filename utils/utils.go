package utils

import (
	rndm "math/rand"
	"net/http"
	"slices"
	"strconv"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateID creates a prefixed entity id, e.g. GenerateID("p", 12).
func GenerateID(prefix string, n int) string {
	return prefix + GenerateRandomString(n)
}

// --- Pagination ---

// ParsePageNumber reads ?pageNumber= and clamps it to >= 1.
func ParsePageNumber(r *http.Request) int {
	page, _ := strconv.Atoi(r.URL.Query().Get("pageNumber"))
	if page < 1 {
		page = 1
	}
	return page
}

// ComputePages returns ceiling(count / pageSize), never below 1 when
// there are matches.
func ComputePages(count int64, pageSize int64) int {
	if count <= 0 {
		return 0
	}
	return int((count + pageSize - 1) / pageSize)
}

// --- Slice Helpers ---

func Contains(slice []string, value string) bool {
	return slices.Contains(slice, value)
}
