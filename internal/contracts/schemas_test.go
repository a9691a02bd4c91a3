package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromPath(t *testing.T) {
	assert.Equal(t, "ParsedCarEvent/1.0.0", keyFromPath("events/parsed-car/v1.json"))
	assert.Equal(t, "ImportReportEvent/2.0.0", keyFromPath("events/import-report/v2.json"))
	assert.Empty(t, keyFromPath("events/broken.json"))
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		body      string
		wantErr   bool
	}{
		{
			name:      "valid parsed car batch",
			eventType: ParsedCarEventType,
			body:      `{"sourceUrl": "https://auto.ru/cars/all", "listings": [{"make": "Kia", "year": 2020, "price": null}]}`,
		},
		{
			name:      "empty batch",
			eventType: ParsedCarEventType,
			body:      `{"sourceUrl": "https://auto.ru/cars/all", "listings": []}`,
		},
		{
			name:      "missing listings",
			eventType: ParsedCarEventType,
			body:      `{"sourceUrl": "https://auto.ru/cars/all"}`,
			wantErr:   true,
		},
		{
			name:      "negative price",
			eventType: ParsedCarEventType,
			body:      `{"sourceUrl": "https://auto.ru", "listings": [{"price": -1}]}`,
			wantErr:   true,
		},
		{
			name:      "not json",
			eventType: ParsedCarEventType,
			body:      `{`,
			wantErr:   true,
		},
		{
			name:      "valid report",
			eventType: ImportReportEventType,
			body:      `{"sourceUrl": "u", "received": 2, "created": 1, "failed": 1, "createdIds": [5], "failures": [{"index": 1, "reason": "bad year"}]}`,
		},
		{
			name:      "unknown type",
			eventType: "OrderEvent",
			body:      `{}`,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvent(tt.eventType, EventVersionV1, []byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
