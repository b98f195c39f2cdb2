package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	out, err := HTML("### **1. Content Summary**\n\n* one\n* two\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<h3><strong>1. Content Summary</strong></h3>")
	assert.Contains(t, out, "<li>one</li>")
	assert.Contains(t, out, "<table>")
}

func TestHTMLDropsRawHTML(t *testing.T) {
	out, err := HTML("hello\n\n<script>alert(1)</script>\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Title\n\nSome **bold** text.", 60, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}
