package order

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"SHIPPED", StatusShipped, false},
		{"shipped", StatusShipped, false},
		{"  delivered  ", StatusDelivered, false},
		{"out_for_delivery", StatusOutForDelivery, false},
		{"CANCELLED", StatusCancelled, false},
		{"PAID", "", true},
		{"", "", true},
		{"SHIPPED EXTRA", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusCreated, StatusConfirmed, true},
		{StatusCreated, StatusShipped, true}, // skipping ahead is allowed
		{StatusConfirmed, StatusDelivered, true},
		{StatusShipped, StatusOutForDelivery, true},

		{StatusShipped, StatusConfirmed, false}, // no going back
		{StatusDelivered, StatusShipped, false},
		{StatusConfirmed, StatusConfirmed, false},

		{StatusCreated, StatusCancelled, true},
		{StatusOutForDelivery, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false}, // terminal
		{StatusCancelled, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusDelivered, StatusConfirmed, false},
	}

	for _, tt := range tests {
		name := string(tt.from) + "->" + string(tt.to)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestApplyStatusStampsTimestampOnce(t *testing.T) {
	now := time.Now()
	o := &Order{Status: StatusCreated}

	ApplyStatus(o, StatusConfirmed, now)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.NotNil(t, o.ConfirmedAt)
	assert.Equal(t, now, *o.ConfirmedAt)

	// A later re-application must not overwrite the original stamp
	later := now.Add(time.Hour)
	ApplyStatus(o, StatusConfirmed, later)
	assert.Equal(t, now, *o.ConfirmedAt)

	ApplyStatus(o, StatusCancelled, later)
	assert.Equal(t, StatusCancelled, o.Status)
	assert.NotNil(t, o.CancelledAt)
	assert.Equal(t, later, *o.CancelledAt)
	assert.Nil(t, o.ShippedAt)
	assert.Nil(t, o.DeliveredAt)
}

func TestGenerateOrderCode(t *testing.T) {
	code := GenerateOrderCode()

	assert.True(t, strings.HasPrefix(code, "ORD-"))

	parts := strings.Split(code, "-")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[2], 6)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])

	// Suffixes are random; two codes should differ
	assert.NotEqual(t, code, GenerateOrderCode())
}

func TestCanBeCancelledByUser(t *testing.T) {
	assert.True(t, (&Order{Status: StatusCreated}).CanBeCancelledByUser())
	assert.True(t, (&Order{Status: StatusConfirmed}).CanBeCancelledByUser())
	assert.False(t, (&Order{Status: StatusShipped}).CanBeCancelledByUser())
	assert.False(t, (&Order{Status: StatusDelivered}).CanBeCancelledByUser())
	assert.False(t, (&Order{Status: StatusCancelled}).CanBeCancelledByUser())
}
