package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"exact match", "https://shop.example.com", []string{"https://shop.example.com"}, true},
		{"no match", "https://other.com", []string{"https://shop.example.com"}, false},
		{"wildcard allows everything", "https://anywhere.dev", []string{"*"}, true},
		{"subdomain wildcard matches", "https://admin.example.com", []string{"*.example.com"}, true},
		{"subdomain wildcard rejects lookalike host", "https://evilexample.com", []string{"*.example.com"}, false},
		{"empty list rejects", "https://shop.example.com", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isOriginAllowed(tt.origin, tt.allowed))
		})
	}
}
