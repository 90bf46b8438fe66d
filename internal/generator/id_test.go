package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)

		if len(code) != CodeLength {
			t.Fatalf("GenerateCode() returned code with length = %v, want %v", len(code), CodeLength)
		}

		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("GenerateCode() returned %q with character %q outside the alphabet", code, c)
			}
		}
		assert.True(t, IsCode(code))
	}
}

func TestGenerateCode_CoversAlphabet(t *testing.T) {
	seen := make(map[rune]bool)
	for i := 0; i < 2000; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		for _, c := range code {
			seen[c] = true
		}
	}

	assert.Len(t, seen, len(codeAlphabet))
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "Valid code", in: "abc123", want: true},
		{name: "Upper case", in: "ABCxyz", want: true},
		{name: "Too short", in: "abc12", want: false},
		{name: "Too long", in: "abc1234", want: false},
		{name: "Dash", in: "abc-12", want: false},
		{name: "Underscore", in: "abc_12", want: false},
		{name: "Empty", in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCode(tt.in))
		})
	}
}

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{
			name:    "Generate ID with length 8",
			length:  8,
			wantErr: false,
		},
		{
			name:    "Generate ID with length 16",
			length:  16,
			wantErr: false,
		},
		{
			name:    "Generate ID with length 0",
			length:  0,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateID(tt.length)

			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if len(got) != tt.length {
				t.Errorf("GenerateID() returned ID with length = %v, want %v", len(got), tt.length)
			}

			got2, _ := GenerateID(tt.length)
			if got == got2 && tt.length > 0 {
				t.Errorf("GenerateID() generated the same ID twice: %v", got)
			}
		})
	}
}
