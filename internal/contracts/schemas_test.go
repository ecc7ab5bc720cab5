package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Submission(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "standalone listing",
			body: `{"record_kind":"listing","property_category":"normal","property_type":"house",
				"for_sale":true,"for_rent":false,"sale_price":1500000,"sale_currency":"AF",
				"location":{"province_id":1,"address":"Shahr-e Naw"},"visibility":"public",
				"photos":[],"videos":[],"amenities":["Parking"],"facilities":[]}`,
		},
		{
			name: "child unit without location",
			body: `{"record_kind":"listing","property_category":"normal","parent_id":7,"location":null,
				"for_sale":false,"for_rent":true,"rent_price":300,"rent_currency":"USD","visibility":"public"}`,
		},
		{
			name: "child unit carrying its own location",
			body: `{"record_kind":"listing","property_category":"normal","parent_id":7,
				"location":{"address":"x"},"for_sale":true,"for_rent":false,"visibility":"public"}`,
			wantErr: true,
		},
		{
			name: "container with parent",
			body: `{"record_kind":"container","property_category":"tower","parent_id":3,
				"for_sale":false,"for_rent":false,"visibility":"owner_only"}`,
			wantErr: true,
		},
		{
			name: "negative bedrooms",
			body: `{"record_kind":"listing","property_category":"normal","bedrooms":-1,
				"for_sale":false,"for_rent":false,"visibility":"private"}`,
			wantErr: true,
		},
		{
			name:    "missing visibility",
			body:    `{"record_kind":"listing","property_category":"normal","for_sale":false,"for_rent":false}`,
			wantErr: true,
		},
		{name: "not json", body: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(PropertySubmissionV1, []byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_Event(t *testing.T) {
	ok := `{"event_id":"9b2f8a5e-2d1c-4f57-a2a4-0d2b3e7c1f11","draft_id":"1d6c3a0e-8a55-4c3b-9f0e-6c1a2b3d4e5f",
		"property_id":42,"record_kind":"listing","title":"House","visibility":"public",
		"submitted_at":"2026-10-19T10:00:00Z"}`
	require.NoError(t, Validate(PropertySubmittedEventV1, []byte(ok)))

	bad := `{"event_id":"not-a-uuid","draft_id":"1d6c3a0e-8a55-4c3b-9f0e-6c1a2b3d4e5f",
		"property_id":42,"record_kind":"listing","title":"House","visibility":"public",
		"submitted_at":"2026-10-19T10:00:00Z"}`
	assert.Error(t, Validate(PropertySubmittedEventV1, []byte(bad)))
}

func TestValidate_UnknownContract(t *testing.T) {
	assert.Error(t, Validate("Nope/1.0", []byte(`{}`)))
}
