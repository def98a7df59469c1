package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/handiism/artworker/internal/model"
)

func TestPick(t *testing.T) {
	albums := []*model.Album{
		{Title: "Animals", Artist: "Pink Floyd", ReleaseDate: "1977"},
		{Title: "Meddle", Artist: "Pink Floyd", ReleaseDate: "1971"},
	}

	tests := []struct {
		name    string
		n       int
		input   string
		want    string
		wantErr bool
	}{
		{"flag", 2, "", "Meddle", false},
		{"flag out of range", 3, "", "", true},
		{"prompt", 0, "1\n", "Animals", false},
		{"prompt retries", 0, "x\n9\n2\n", "Meddle", false},
		{"prompt eof", 0, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := pick(albums, tt.n, strings.NewReader(tt.input), &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("pick() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.Title != tt.want {
				t.Errorf("pick() = %q, want %q", got.Title, tt.want)
			}
		})
	}

	single, err := pick(albums[:1], 0, strings.NewReader(""), &bytes.Buffer{})
	if err != nil || single.Title != "Animals" {
		t.Errorf("pick(single) = %v, %v", single, err)
	}
}
