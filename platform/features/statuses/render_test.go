package statuses_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/content-eventbus-go/platform/features/statuses"
)

func Test_RenderHTML(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{name: "empty", markdown: "", want: ""},
		{name: "single_paragraph", markdown: "Hello", want: "<p>Hello</p>\n"},
		{name: "paragraphs", markdown: "Hello\n\nWorld", want: "<p>Hello</p>\n<p>World</p>\n"},
		{name: "line_break", markdown: "Hello\nWorld", want: "<p>Hello<br>World</p>\n"},
		{name: "windows_newlines", markdown: "a\r\n\r\nb", want: "<p>a</p>\n<p>b</p>\n"},
		{name: "escapes", markdown: "<b>&</b>", want: "<p>&lt;b&gt;&amp;&lt;/b&gt;</p>\n"},
		{name: "extra_blank_lines", markdown: "a\n\n\n\nb", want: "<p>a</p>\n<p>b</p>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statuses.RenderHTML(tt.markdown))
		})
	}
}
