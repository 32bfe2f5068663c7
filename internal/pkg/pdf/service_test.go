package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "₹0.00", formatRupees(0))
	assert.Equal(t, "₹0.05", formatRupees(5))
	assert.Equal(t, "₹1.00", formatRupees(100))
	assert.Equal(t, "₹1250.50", formatRupees(125050))
	assert.Equal(t, "₹999.99", formatRupees(99999))
}
