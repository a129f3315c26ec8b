package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStruct_TrimsAndEscapes(t *testing.T) {
	note := "  <b>note</b>  "
	req := struct {
		Name string
		Note *string
	}{
		Name: "  Maria <script>  ",
		Note: &note,
	}

	SanitizeStruct(&req)

	assert.Equal(t, "Maria &lt;script&gt;", req.Name)
	assert.Equal(t, "&lt;b&gt;note&lt;/b&gt;", *req.Note)
}

func TestSanitizeStruct_IgnoresNonStructs(t *testing.T) {
	s := "unchanged"
	SanitizeStruct(s)
	SanitizeStruct(&s)
	assert.Equal(t, "unchanged", s)
}

func TestSafeStringRe(t *testing.T) {
	valid := []string{"BOOP-A1B2C3D4", "req_001", "a.b-c"}
	for _, s := range valid {
		assert.True(t, safeStringRe.MatchString(s), s)
	}

	invalid := []string{"", "has space", "semi;colon", "<tag>", "boop:123"}
	for _, s := range invalid {
		assert.False(t, safeStringRe.MatchString(s), s)
	}
}
